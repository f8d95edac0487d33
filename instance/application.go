// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package instance models the per-application base table that instances are
// generated from and assembles the final instance rows.
package instance

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/petenewcomb/instgen-go/internal/cerr"
)

// Demand is an application's per-replica resource requirement, either a
// [FixedDemand] or a [SeriesDemand].
type Demand interface {
	// SeriesLen returns the number of time steps, or zero for fixed demand.
	SeriesLen() int
	isDemand()
}

// FixedDemand is a constant {core, memory} requirement.
type FixedDemand struct {
	Core   int
	Memory int
}

func (FixedDemand) SeriesLen() int { return 0 }
func (FixedDemand) isDemand()      {}

// SeriesDemand is a time-varying requirement. Core and Memory have the same
// length.
type SeriesDemand struct {
	Core   []float64
	Memory []float64
}

func (d SeriesDemand) SeriesLen() int { return len(d.Core) }
func (SeriesDemand) isDemand()        {}

// Peak returns the maximum core and memory demand over the series.
func (d SeriesDemand) Peak() (core, memory float64) {
	if len(d.Core) > 0 {
		core = slices.Max(d.Core)
	}
	if len(d.Memory) > 0 {
		memory = slices.Max(d.Memory)
	}
	return core, memory
}

// Application is one row of the base table.
type Application struct {
	ID       int
	Replicas int
	Demand   Demand
}

// Table is a validated, read-only base table whose ids are exactly 1..Len().
type Table struct {
	apps       []Application
	timeSeries bool
	seriesLen  int
}

// NewTable sorts apps by id and validates them: the table must be non-empty,
// ids must be exactly 1..len(apps), replica counts positive, and every
// application must use the same demand model. Time-series demands must all
// share one length, identical for core and memory. Failures are reported as
// [cerr.InvalidParameter].
func NewTable(apps []Application) (*Table, error) {
	if len(apps) == 0 {
		return nil, fmt.Errorf("%w: empty base table", cerr.InvalidParameter)
	}
	sorted := slices.Clone(apps)
	slices.SortFunc(sorted, func(a, b Application) int {
		return cmp.Compare(a.ID, b.ID)
	})

	t := &Table{apps: sorted}
	for i, app := range sorted {
		if app.ID != i+1 {
			return nil, fmt.Errorf("%w: application ids are not exactly 1..%d (found %d at position %d)",
				cerr.InvalidParameter, len(sorted), app.ID, i+1)
		}
		if app.Replicas <= 0 {
			return nil, fmt.Errorf("%w: application %d has %d replicas",
				cerr.InvalidParameter, app.ID, app.Replicas)
		}
		switch d := app.Demand.(type) {
		case FixedDemand:
			if i > 0 && t.timeSeries {
				return nil, mixedDemandError(app.ID)
			}
		case SeriesDemand:
			if i == 0 {
				t.timeSeries = true
				t.seriesLen = len(d.Core)
			} else if !t.timeSeries {
				return nil, mixedDemandError(app.ID)
			}
			if len(d.Core) != len(d.Memory) {
				return nil, fmt.Errorf("%w: application %d has %d core and %d memory samples",
					cerr.InvalidParameter, app.ID, len(d.Core), len(d.Memory))
			}
			if len(d.Core) != t.seriesLen {
				return nil, fmt.Errorf("%w: application %d has series length %d, want %d",
					cerr.InvalidParameter, app.ID, len(d.Core), t.seriesLen)
			}
		case nil:
			return nil, fmt.Errorf("%w: application %d has no demand", cerr.InvalidParameter, app.ID)
		default:
			panic(fmt.Sprintf("unexpected demand type %T", d))
		}
	}
	return t, nil
}

func mixedDemandError(id int) error {
	return fmt.Errorf("%w: application %d mixes fixed and time-series demand",
		cerr.InvalidParameter, id)
}

// Len returns the number of applications.
func (t *Table) Len() int {
	return len(t.apps)
}

// TimeSeries reports whether the table uses time-series demand.
func (t *Table) TimeSeries() bool {
	return t.timeSeries
}

// SeriesLen returns the shared series length, or zero for fixed demand.
func (t *Table) SeriesLen() int {
	return t.seriesLen
}

// App returns the application with the given id.
func (t *Table) App(id int) Application {
	if id < 1 || id > len(t.apps) {
		panic(fmt.Sprintf("application %d outside 1..%d", id, len(t.apps)))
	}
	return t.apps[id-1]
}

// Apps returns the applications in id order. The slice must not be modified.
func (t *Table) Apps() []Application {
	return t.apps
}
