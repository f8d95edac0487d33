// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package affinity_test

import (
	"math"
	"testing"

	"github.com/petenewcomb/instgen-go/affinity"
	"github.com/petenewcomb/instgen-go/graph"
	"github.com/petenewcomb/instgen-go/internal/cerr"
	"github.com/petenewcomb/instgen-go/internal/draw"
	"github.com/petenewcomb/instgen-go/variate"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestTClab(t *testing.T) {
	chk := require.New(t)
	chk.Equal([]int{0, 2, 1, 3, 4}, affinity.TClab.Categories())
	chk.Equal([]float64{13144, 6556, 3992, 361, 25}, affinity.TClab.Weights())
	for c := range 5 {
		chk.True(affinity.TClab.Contains(c))
	}
	chk.False(affinity.TClab.Contains(5))
}

func TestDistributionIsImmutable(t *testing.T) {
	chk := require.New(t)
	cats := []int{7, 8}
	weights := []float64{1, 2}
	d, err := affinity.NewDistribution(cats, weights)
	chk.NoError(err)
	cats[0] = 100
	weights[0] = 100
	chk.Equal([]int{7, 8}, d.Categories())
	d.Weights()[1] = 0
	chk.Equal([]float64{1, 2}, d.Weights())
}

func TestNewDistributionInvalid(t *testing.T) {
	chk := require.New(t)
	_, err := affinity.NewDistribution(nil, nil)
	chk.ErrorIs(err, cerr.InvalidParameter)
	_, err = affinity.NewDistribution([]int{1, 2}, []float64{1})
	chk.ErrorIs(err, cerr.InvalidParameter)
	_, err = affinity.NewDistribution([]int{1}, []float64{-1})
	chk.ErrorIs(err, cerr.InvalidParameter)
	_, err = affinity.NewDistribution([]int{1, 2}, []float64{0, 0})
	chk.ErrorIs(err, cerr.InvalidParameter)
	for _, w := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err = affinity.NewDistribution([]int{1, 2}, []float64{1, w})
		chk.ErrorIs(err, cerr.InvalidParameter, "weight %v", w)
	}
}

func TestNewLabelerZeroDistributionPanics(t *testing.T) {
	require.PanicsWithValue(t, "distribution must be initialized with NewDistribution", func() {
		affinity.NewLabeler(affinity.Distribution{})
	})
}

func TestLabel(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		chk := require.New(t)
		g := draw.Graph(t, "graph", 15)
		s, _ := draw.Sampler(t, "sampler")
		labeler := affinity.NewLabeler(affinity.TClab)

		records, err := labeler.Label(g, s)
		chk.NoError(err)
		chk.Len(records, g.Order())

		var total int
		for i, rec := range records {
			chk.Equal(i+1, rec.Node)
			chk.Equal(g.OutDegree(rec.Node), rec.Degree)
			chk.Len(rec.Affinities, rec.Degree)
			for j, p := range rec.Affinities {
				chk.Equal(g.OutNeighbors(rec.Node)[j], p.Target)
				chk.True(affinity.TClab.Contains(p.Category), "category %d", p.Category)
			}
			total += len(rec.Affinities)
		}
		chk.Equal(g.Size(), total)
	})
}

func TestLabelSingleCategory(t *testing.T) {
	chk := require.New(t)
	d, err := affinity.NewDistribution([]int{0, 9}, []float64{0, 1})
	chk.NoError(err)
	g, err := graph.Arbitrary(20, 0.3, variate.NewSeeded(2))
	chk.NoError(err)
	records, err := affinity.NewLabeler(d).Label(g, variate.NewSeeded(3))
	chk.NoError(err)
	for _, rec := range records {
		for _, p := range rec.Affinities {
			chk.Equal(9, p.Category)
		}
	}
}

func TestLabelFrequencies(t *testing.T) {
	chk := require.New(t)
	g, err := graph.Arbitrary(300, 0.4, variate.NewSeeded(5))
	chk.NoError(err)
	records, err := affinity.NewLabeler(affinity.TClab).Label(g, variate.NewSeeded(6))
	chk.NoError(err)
	counts := make(map[int]int)
	for _, rec := range records {
		for _, p := range rec.Affinities {
			counts[p.Category]++
		}
	}
	total := float64(g.Size())
	chk.InDelta(13144.0/24078, float64(counts[0])/total, 0.01)
	chk.InDelta(6556.0/24078, float64(counts[2])/total, 0.01)
	chk.InDelta(3992.0/24078, float64(counts[1])/total, 0.01)
}
