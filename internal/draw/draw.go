// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package draw

import (
	"fmt"

	"github.com/petenewcomb/instgen-go/graph"
	"github.com/petenewcomb/instgen-go/instance"
	"github.com/petenewcomb/instgen-go/variate"
	"pgregory.net/rapid"
)

// Nodes draws node counts biased toward small graphs so that exhaustive
// checks stay cheap.
var Nodes = BiasedIntConfig{Min: 2, Med: 8, Max: 60}

// Density draws densities over the whole valid range, biased toward the
// sparse end used in practice.
var Density = BiasedFloatConfig{Min: 0, Med: 0.05, Max: 1}

// Sampler draws a seed and returns a sampler over it. Replaying the same seed
// with [variate.NewSeeded] reproduces the sampler's output exactly.
func Sampler(t *rapid.T, name string) (*variate.Sampler, uint64) {
	seed := rapid.Uint64().Draw(t, name+".Seed")
	return variate.NewSeeded(seed), seed
}

// Graph draws an arbitrary simple directed graph with up to maxNodes nodes by
// deciding each ordered pair independently.
func Graph(t *rapid.T, name string, maxNodes int) *graph.Digraph {
	n := rapid.IntRange(2, maxNodes).Draw(t, name+".Nodes")
	g := graph.New(n)
	edge := rapid.Bool()
	for u := 1; u <= n; u++ {
		for v := 1; v <= n; v++ {
			if u != v && edge.Draw(t, fmt.Sprintf("%s.Edge(%d,%d)", name, u, v)) {
				g.AddEdge(u, v)
			}
		}
	}
	return g
}

// Table draws a valid base table with ids 1..n. When timeSeries is set every
// application carries core and memory series of a shared length.
func Table(t *rapid.T, name string, n int, timeSeries bool) *instance.Table {
	apps := make([]instance.Application, n)
	seriesLen := rapid.IntRange(1, 8).Draw(t, name+".SeriesLength")
	for i := range apps {
		appName := fmt.Sprintf("%s.App#%d", name, i+1)
		apps[i] = instance.Application{
			ID:       i + 1,
			Replicas: rapid.IntRange(1, 500).Draw(t, appName+".Replicas"),
		}
		if timeSeries {
			series := rapid.SliceOfN(rapid.Float64Range(0, 64), seriesLen, seriesLen)
			apps[i].Demand = instance.SeriesDemand{
				Core:   series.Draw(t, appName+".Core"),
				Memory: series.Draw(t, appName+".Memory"),
			}
		} else {
			apps[i].Demand = instance.FixedDemand{
				Core:   rapid.IntRange(1, 96).Draw(t, appName+".Core"),
				Memory: rapid.IntRange(1, 512).Draw(t, appName+".Memory"),
			}
		}
	}
	table, err := instance.NewTable(apps)
	if err != nil {
		t.Fatalf("drawn table rejected: %v", err)
	}
	return table
}
