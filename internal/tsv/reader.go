// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package tsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/petenewcomb/instgen-go/instance"
)

// ReadDataset reads every row of a dataset or instance file. The id,
// replica, core, and memory columns are required; the degree and affinity
// columns may be absent or empty, in which case rows carry no affinities.
//
// Rows are returned in file order and are not validated as a table. When
// the degree column is present it must agree with the affinity list.
func ReadDataset(r io.Reader) ([]instance.Row, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols, err := columnIndexes(header)
	if err != nil {
		return nil, err
	}

	var rows []instance.Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		row, err := cols.parse(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
}

// ReadTable reads a dataset and returns its base table, dropping any
// affinity columns.
func ReadTable(r io.Reader) (*instance.Table, error) {
	rows, err := ReadDataset(r)
	if err != nil {
		return nil, err
	}
	apps := make([]instance.Application, len(rows))
	for i := range rows {
		apps[i] = rows[i].Application
	}
	return instance.NewTable(apps)
}

// ReadTableFile is [ReadTable] on the named file.
func ReadTableFile(path string) (*instance.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	table, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return table, nil
}

// ReadDatasetFile is [ReadDataset] on the named file.
func ReadDatasetFile(path string) ([]instance.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := ReadDataset(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rows, nil
}

type columns struct {
	id, replicas, core, memory int
	degree, affinity           int // -1 when absent
}

func columnIndexes(header []string) (columns, error) {
	find := func(name string) int {
		return slices.Index(header, name)
	}
	c := columns{
		id:       find(ColID),
		replicas: find(ColReplicas),
		core:     find(ColCore),
		memory:   find(ColMemory),
		degree:   find(ColDegree),
		affinity: find(ColAffinity),
	}
	for name, idx := range map[string]int{
		ColID:       c.id,
		ColReplicas: c.replicas,
		ColCore:     c.core,
		ColMemory:   c.memory,
	} {
		if idx < 0 {
			return columns{}, fmt.Errorf("missing column %q", name)
		}
	}
	return c, nil
}

func (c columns) parse(record []string) (instance.Row, error) {
	field := func(idx int) string {
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	var row instance.Row
	var err error
	if row.ID, err = parseInt(field(c.id)); err != nil {
		return row, fmt.Errorf("%s: %w", ColID, err)
	}
	if row.Replicas, err = parseInt(field(c.replicas)); err != nil {
		return row, fmt.Errorf("%s: %w", ColReplicas, err)
	}

	core, memory := field(c.core), field(c.memory)
	if isList(core) || isList(memory) {
		var d instance.SeriesDemand
		if d.Core, err = parseSeries(core); err != nil {
			return row, fmt.Errorf("%s: %w", ColCore, err)
		}
		if d.Memory, err = parseSeries(memory); err != nil {
			return row, fmt.Errorf("%s: %w", ColMemory, err)
		}
		row.Demand = d
	} else {
		var d instance.FixedDemand
		if d.Core, err = parseInt(core); err != nil {
			return row, fmt.Errorf("%s: %w", ColCore, err)
		}
		if d.Memory, err = parseInt(memory); err != nil {
			return row, fmt.Errorf("%s: %w", ColMemory, err)
		}
		row.Demand = d
	}

	if row.Affinities, err = parseAffinities(field(c.affinity)); err != nil {
		return row, fmt.Errorf("%s: %w", ColAffinity, err)
	}
	row.Degree = len(row.Affinities)
	if degree := field(c.degree); degree != "" {
		n, err := parseInt(degree)
		if err != nil {
			return row, fmt.Errorf("%s: %w", ColDegree, err)
		}
		if n != row.Degree {
			return row, fmt.Errorf("%s is %d but %s lists %d pairs", ColDegree, n, ColAffinity, row.Degree)
		}
	}
	return row, nil
}
