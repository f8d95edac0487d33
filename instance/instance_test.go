// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package instance_test

import (
	"testing"

	"github.com/petenewcomb/instgen-go/affinity"
	"github.com/petenewcomb/instgen-go/graph"
	"github.com/petenewcomb/instgen-go/instance"
	"github.com/petenewcomb/instgen-go/internal/cerr"
	"github.com/petenewcomb/instgen-go/internal/draw"
	"github.com/petenewcomb/instgen-go/variate"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func fixed(id, replicas int) instance.Application {
	return instance.Application{
		ID:       id,
		Replicas: replicas,
		Demand:   instance.FixedDemand{Core: 2, Memory: 4},
	}
}

func TestNewTableSortsByID(t *testing.T) {
	chk := require.New(t)
	table, err := instance.NewTable([]instance.Application{fixed(3, 1), fixed(1, 2), fixed(2, 3)})
	chk.NoError(err)
	chk.Equal(3, table.Len())
	chk.False(table.TimeSeries())
	for id := 1; id <= 3; id++ {
		chk.Equal(id, table.App(id).ID)
	}
	chk.Equal(2, table.App(1).Replicas)
}

func TestNewTableInvalid(t *testing.T) {
	series := func(id, length int) instance.Application {
		return instance.Application{
			ID:       id,
			Replicas: 1,
			Demand: instance.SeriesDemand{
				Core:   make([]float64, length),
				Memory: make([]float64, length),
			},
		}
	}
	for name, apps := range map[string][]instance.Application{
		"empty":         nil,
		"gap":           {fixed(1, 1), fixed(3, 1)},
		"duplicate":     {fixed(1, 1), fixed(1, 1)},
		"zero-based":    {fixed(0, 1), fixed(1, 1)},
		"no replicas":   {fixed(1, 0)},
		"no demand":     {{ID: 1, Replicas: 1}},
		"mixed":         {fixed(1, 1), series(2, 3)},
		"mixed reverse": {series(1, 3), fixed(2, 1)},
		"ragged":        {series(1, 3), series(2, 4)},
		"unpaired": {{ID: 1, Replicas: 1, Demand: instance.SeriesDemand{
			Core:   []float64{1, 2},
			Memory: []float64{1},
		}}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := instance.NewTable(apps)
			require.ErrorIs(t, err, cerr.InvalidParameter)
		})
	}
}

func TestSeriesPeak(t *testing.T) {
	chk := require.New(t)
	core, memory := instance.SeriesDemand{
		Core:   []float64{0.5, 3.25, 1},
		Memory: []float64{7, 2, 9.5},
	}.Peak()
	chk.Equal(3.25, core)
	chk.Equal(9.5, memory)
}

func TestAssemble(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		chk := require.New(t)
		n := draw.Nodes.Draw(t, "n")
		table := draw.Table(t, "table", n, rapid.Bool().Draw(t, "timeSeries"))
		s, _ := draw.Sampler(t, "sampler")
		g, err := graph.Arbitrary(n, draw.Density.Draw(t, "density"), s)
		chk.NoError(err)
		records, err := affinity.NewLabeler(affinity.TClab).Label(g, s)
		chk.NoError(err)

		rows, err := instance.Assemble(table, records)
		chk.NoError(err)
		chk.Len(rows, table.Len())
		chk.Equal(g.Size(), instance.Edges(rows))
		for i, row := range rows {
			chk.Equal(table.App(i+1), row.Application)
			chk.Equal(row.Degree, len(row.Affinities))
			for _, p := range row.Affinities {
				chk.NotEqual(row.ID, p.Target)
				chk.GreaterOrEqual(p.Target, 1)
				chk.LessOrEqual(p.Target, n)
			}
		}
	})
}

func TestAssembleConsistencyFailures(t *testing.T) {
	chk := require.New(t)
	table, err := instance.NewTable([]instance.Application{fixed(1, 1), fixed(2, 1), fixed(3, 1)})
	chk.NoError(err)
	good := func() []affinity.Record {
		return []affinity.Record{
			{Node: 1, Degree: 1, Affinities: []affinity.Pair{{Target: 2}}},
			{Node: 2, Degree: 0, Affinities: []affinity.Pair{}},
			{Node: 3, Degree: 2, Affinities: []affinity.Pair{{Target: 1}, {Target: 2, Category: 3}}},
		}
	}
	_, err = instance.Assemble(table, good())
	chk.NoError(err)

	_, err = instance.Assemble(table, good()[:2])
	chk.ErrorIs(err, cerr.ConsistencyFailure)

	records := good()
	records[1].Node = 5
	_, err = instance.Assemble(table, records)
	chk.ErrorIs(err, cerr.ConsistencyFailure)

	records = good()
	records[0].Degree = 2
	_, err = instance.Assemble(table, records)
	chk.ErrorIs(err, cerr.ConsistencyFailure)

	records = good()
	records[2].Affinities[0].Target = 3
	_, err = instance.Assemble(table, records)
	chk.ErrorIs(err, cerr.ConsistencyFailure)

	records = good()
	records[0].Affinities[0].Target = 4
	_, err = instance.Assemble(table, records)
	chk.ErrorIs(err, cerr.ConsistencyFailure)
}

func TestReplicaDistributionOf(t *testing.T) {
	chk := require.New(t)
	table, err := instance.NewTable([]instance.Application{
		fixed(1, 5), fixed(2, 1), fixed(3, 5), fixed(4, 2), fixed(5, 1), fixed(6, 5), fixed(7, 3),
	})
	chk.NoError(err)
	dist := instance.ReplicaDistributionOf(table)
	chk.Equal([]int{5, 1, 2, 3}, dist.Values)
	chk.Equal([]float64{3, 2, 1, 1}, dist.Weights)
}

func TestResample(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		chk := require.New(t)
		source := draw.Table(t, "source", draw.Nodes.Draw(t, "sourceSize"), rapid.Bool().Draw(t, "timeSeries"))
		n := rapid.IntRange(1, 200).Draw(t, "n")
		s, _ := draw.Sampler(t, "sampler")
		dist := instance.ReplicaDistributionOf(source)

		table, err := instance.Resample(source, n, dist, s)
		chk.NoError(err)
		chk.Equal(n, table.Len())
		chk.Equal(source.TimeSeries(), table.TimeSeries())
		chk.Equal(source.SeriesLen(), table.SeriesLen())
		for _, app := range table.Apps() {
			chk.Contains(dist.Values, app.Replicas)
		}
	})
}

func TestResampleInvalid(t *testing.T) {
	chk := require.New(t)
	source, err := instance.NewTable([]instance.Application{fixed(1, 1)})
	chk.NoError(err)
	s := variate.NewSeeded(1)
	_, err = instance.Resample(source, 0, instance.ReplicaDistributionOf(source), s)
	chk.ErrorIs(err, cerr.InvalidParameter)
	_, err = instance.Resample(source, 3, instance.ReplicaDistribution{}, s)
	chk.ErrorIs(err, cerr.InvalidParameter)
	_, err = instance.Resample(source, 3, instance.ReplicaDistribution{Values: []int{0}, Weights: []float64{1}}, s)
	chk.ErrorIs(err, cerr.InvalidParameter)
}
