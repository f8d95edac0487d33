// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package trace extracts the base application dataset from the raw cluster
// trace. Three header-less CSV files are read:
//
//	app_resources.csv        app_<id>, cpu series, memory series ('|'-separated)
//	instance_deployment.csv  instance id, app_<id>, machine id
//	app_interference.csv     app_<a>, app_<b>, category
//
// The result is offered with two demand models: fixed demand, the ceiling of
// each series' peak, and the raw time series.
package trace

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/petenewcomb/instgen-go/affinity"
	"github.com/petenewcomb/instgen-go/instance"
	"github.com/petenewcomb/instgen-go/internal/cerr"
)

// File names expected by [ExtractDir].
const (
	ResourcesFile    = "app_resources.csv"
	DeploymentsFile  = "instance_deployment.csv"
	InterferenceFile = "app_interference.csv"
)

const (
	appPrefix = "app_"
	seriesSep = "|"
)

// Sources supplies the three raw trace files.
type Sources struct {
	Resources    io.Reader
	Deployments  io.Reader
	Interference io.Reader
}

// Dataset is the extracted base dataset. Fixed and Series describe the same
// applications in id order and carry the same affinity lists.
type Dataset struct {
	Fixed  []instance.Row
	Series []instance.Row
}

// Extract builds the base dataset. Every application with resource usage
// must have at least one deployed instance. Interference rows pairing an
// application with itself are ignored; the rest become affinity lists in
// file order.
func Extract(src Sources) (*Dataset, error) {
	usage, err := readResources(src.Resources)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ResourcesFile, err)
	}
	replicas, err := readDeployments(src.Deployments)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", DeploymentsFile, err)
	}
	affinities, err := readInterference(src.Interference)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", InterferenceFile, err)
	}

	ids := make([]int, 0, len(usage))
	for id := range usage {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	ds := &Dataset{
		Fixed:  make([]instance.Row, len(ids)),
		Series: make([]instance.Row, len(ids)),
	}
	for i, id := range ids {
		n := replicas[id]
		if n == 0 {
			return nil, fmt.Errorf("%w: application %d has no deployed instances", cerr.InvalidParameter, id)
		}
		series := usage[id]
		pairs := affinities[id]
		if pairs == nil {
			pairs = []affinity.Pair{}
		}
		core, memory := series.Peak()
		ds.Fixed[i] = instance.Row{
			Application: instance.Application{
				ID:       id,
				Replicas: n,
				Demand: instance.FixedDemand{
					Core:   int(math.Ceil(core)),
					Memory: int(math.Ceil(memory)),
				},
			},
			Degree:     len(pairs),
			Affinities: pairs,
		}
		ds.Series[i] = ds.Fixed[i]
		ds.Series[i].Demand = series
	}
	return ds, nil
}

// ExtractDir opens the trace files in dir and calls [Extract].
func ExtractDir(dir string) (*Dataset, error) {
	var src Sources
	for name, dst := range map[string]*io.Reader{
		ResourcesFile:    &src.Resources,
		DeploymentsFile:  &src.Deployments,
		InterferenceFile: &src.Interference,
	} {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		*dst = f
	}
	return Extract(src)
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return cr
}

// eachRecord calls fn with every record of r that has at least minFields
// fields.
func eachRecord(r io.Reader, minFields int, fn func(record []string) error) error {
	cr := newReader(r)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		line, _ := cr.FieldPos(0)
		if len(record) < minFields {
			return fmt.Errorf("line %d: %d fields, want at least %d", line, len(record), minFields)
		}
		if err := fn(record); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
}

func parseAppID(s string) (int, error) {
	digits, ok := strings.CutPrefix(strings.TrimSpace(s), appPrefix)
	if !ok {
		return 0, fmt.Errorf("%q is not an application name", s)
	}
	id, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("application name %q: %w", s, err)
	}
	return id, nil
}

func parseUsage(s string) ([]float64, error) {
	parts := strings.Split(s, seriesSep)
	series := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		series[i] = v
	}
	return series, nil
}

func readResources(r io.Reader) (map[int]instance.SeriesDemand, error) {
	usage := make(map[int]instance.SeriesDemand)
	err := eachRecord(r, 3, func(record []string) error {
		id, err := parseAppID(record[0])
		if err != nil {
			return err
		}
		if _, dup := usage[id]; dup {
			return fmt.Errorf("duplicate resource usage for application %d", id)
		}
		var d instance.SeriesDemand
		if d.Core, err = parseUsage(record[1]); err != nil {
			return fmt.Errorf("cpu usage: %w", err)
		}
		if d.Memory, err = parseUsage(record[2]); err != nil {
			return fmt.Errorf("memory usage: %w", err)
		}
		usage[id] = d
		return nil
	})
	return usage, err
}

func readDeployments(r io.Reader) (map[int]int, error) {
	replicas := make(map[int]int)
	err := eachRecord(r, 2, func(record []string) error {
		id, err := parseAppID(record[1])
		if err != nil {
			return err
		}
		replicas[id]++
		return nil
	})
	return replicas, err
}

func readInterference(r io.Reader) (map[int][]affinity.Pair, error) {
	pairs := make(map[int][]affinity.Pair)
	err := eachRecord(r, 3, func(record []string) error {
		a, err := parseAppID(record[0])
		if err != nil {
			return err
		}
		b, err := parseAppID(record[1])
		if err != nil {
			return err
		}
		k, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil {
			return fmt.Errorf("interference category: %w", err)
		}
		if a != b {
			pairs[a] = append(pairs[a], affinity.Pair{Target: b, Category: k})
		}
		return nil
	})
	return pairs, err
}
