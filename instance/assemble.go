// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package instance

import (
	"fmt"

	"github.com/petenewcomb/instgen-go/affinity"
	"github.com/petenewcomb/instgen-go/internal/cerr"
)

// Row is one application of a generated instance: the base columns plus its
// out-degree and labeled affinity list.
type Row struct {
	Application
	Degree     int
	Affinities []affinity.Pair
}

// Assemble left-joins the labeled records onto the base table by application
// id and returns one row per application in id order. records must be
// indexed by node id minus one and cover exactly the ids of table.
//
// Any disagreement between the two, whether in node set, degree, or target
// ids, is reported as [cerr.ConsistencyFailure].
func Assemble(table *Table, records []affinity.Record) ([]Row, error) {
	if len(records) != table.Len() {
		return nil, fmt.Errorf("%w: %d graph nodes for %d applications",
			cerr.ConsistencyFailure, len(records), table.Len())
	}
	n := table.Len()
	rows := make([]Row, n)
	for i, app := range table.Apps() {
		rec := &records[i]
		if rec.Node != app.ID {
			return nil, fmt.Errorf("%w: record %d belongs to node %d, not application %d",
				cerr.ConsistencyFailure, i, rec.Node, app.ID)
		}
		if rec.Degree != len(rec.Affinities) {
			return nil, fmt.Errorf("%w: node %d has degree %d but %d affinities",
				cerr.ConsistencyFailure, rec.Node, rec.Degree, len(rec.Affinities))
		}
		for _, p := range rec.Affinities {
			if p.Target < 1 || p.Target > n || p.Target == app.ID {
				return nil, fmt.Errorf("%w: node %d has invalid affinity target %d",
					cerr.ConsistencyFailure, rec.Node, p.Target)
			}
		}
		rows[i] = Row{
			Application: app,
			Degree:      rec.Degree,
			Affinities:  rec.Affinities,
		}
	}
	return rows, nil
}

// Edges returns the total number of affinities across rows.
func Edges(rows []Row) int {
	var total int
	for i := range rows {
		total += rows[i].Degree
	}
	return total
}
