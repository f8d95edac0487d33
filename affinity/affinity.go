// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package affinity attaches interference-strength categories to the edges of
// a generated graph.
package affinity

import (
	"fmt"
	"math"
	"slices"

	"github.com/petenewcomb/instgen-go/graph"
	"github.com/petenewcomb/instgen-go/internal/cerr"
	"github.com/petenewcomb/instgen-go/variate"
)

// Distribution is an immutable categorical distribution over interference
// categories. Category values are opaque to this package.
type Distribution struct {
	categories []int
	weights    []float64
}

// TClab is the empirical category distribution observed in the TClab trace.
var TClab = mustDistribution(
	[]int{0, 2, 1, 3, 4},
	[]float64{13144, 6556, 3992, 361, 25},
)

// NewDistribution returns a distribution drawing categories[i] with
// probability proportional to weights[i]. Both slices are copied.
func NewDistribution(categories []int, weights []float64) (Distribution, error) {
	if len(categories) != len(weights) {
		return Distribution{}, fmt.Errorf("%w: %d categories but %d weights",
			cerr.InvalidParameter, len(categories), len(weights))
	}
	if len(categories) == 0 {
		return Distribution{}, fmt.Errorf("%w: no categories", cerr.InvalidParameter)
	}
	var total float64
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return Distribution{}, fmt.Errorf("%w: weight %v for category %d",
				cerr.InvalidParameter, w, categories[i])
		}
		total += w
	}
	if total == 0 {
		return Distribution{}, fmt.Errorf("%w: weights sum to zero", cerr.InvalidParameter)
	}
	return Distribution{
		categories: slices.Clone(categories),
		weights:    slices.Clone(weights),
	}, nil
}

func mustDistribution(categories []int, weights []float64) Distribution {
	d, err := NewDistribution(categories, weights)
	if err != nil {
		panic(err)
	}
	return d
}

// Categories returns a copy of the category values.
func (d Distribution) Categories() []int {
	return slices.Clone(d.categories)
}

// Weights returns a copy of the category weights, aligned with Categories.
func (d Distribution) Weights() []float64 {
	return slices.Clone(d.weights)
}

// Contains reports whether category is one of the distribution's values.
func (d Distribution) Contains(category int) bool {
	return slices.Contains(d.categories, category)
}

// Pair is one labeled out-edge: its target node and interference category.
type Pair struct {
	Target   int
	Category int
}

// Record holds the labeled out-edges of one node. Degree always equals
// len(Affinities).
type Record struct {
	Node       int
	Degree     int
	Affinities []Pair
}

// A Labeler assigns categories drawn from its distribution to graph edges.
type Labeler struct {
	dist Distribution
}

// NewLabeler returns a labeler drawing from dist.
func NewLabeler(dist Distribution) *Labeler {
	if len(dist.categories) == 0 {
		panic("distribution must be initialized with NewDistribution")
	}
	return &Labeler{dist: dist}
}

// Distribution returns the labeler's category distribution.
func (l *Labeler) Distribution() Distribution {
	return l.dist
}

// Label returns one record per node of g, indexed by node id minus one. The
// categories for a node's k out-edges are drawn in a single batch of k
// independent draws, paired with the neighbors in g's enumeration order.
func (l *Labeler) Label(g *graph.Digraph, s *variate.Sampler) ([]Record, error) {
	if s == nil {
		panic("sampler must be non-nil")
	}
	records := make([]Record, g.Order())
	for u := 1; u <= g.Order(); u++ {
		targets := g.OutNeighbors(u)
		categories, err := variate.WeightedChoice(s, l.dist.categories, l.dist.weights, len(targets))
		if err != nil {
			return nil, err
		}
		pairs := make([]Pair, len(targets))
		for i, v := range targets {
			pairs[i] = Pair{Target: v, Category: categories[i]}
		}
		records[u-1] = Record{
			Node:       u,
			Degree:     len(pairs),
			Affinities: pairs,
		}
	}
	return records, nil
}
