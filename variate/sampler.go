// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package variate draws the random variates used by the graph generators and
// the affinity labeler. All draws go through a [Sampler], which wraps an
// explicit random source so that callers, and tests in particular, control
// where randomness comes from.
//
// A Sampler is not safe for concurrent use. Independent generation calls
// that run in parallel should each be given their own Sampler, for instance
// one obtained from [Sampler.Split].
package variate

import (
	"fmt"
	"math"

	"github.com/petenewcomb/instgen-go/internal/cerr"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// Sampler is the randomness handle threaded through every generator call.
type Sampler struct {
	src rand.Source
	rnd *rand.Rand
}

// New returns a Sampler that draws from src.
func New(src rand.Source) *Sampler {
	if src == nil {
		panic("random source must be non-nil")
	}
	return &Sampler{
		src: src,
		rnd: rand.New(src),
	}
}

// NewSeeded returns a Sampler over a fresh source seeded with seed.
func NewSeeded(seed uint64) *Sampler {
	return New(rand.NewSource(seed))
}

// Split returns a new Sampler whose source is seeded from this one. The two
// samplers share no state afterward.
func (s *Sampler) Split() *Sampler {
	return NewSeeded(s.rnd.Uint64())
}

// Uint64 returns a uniformly distributed 64-bit value.
func (s *Sampler) Uint64() uint64 {
	return s.rnd.Uint64()
}

// Intn returns a uniformly distributed integer in [0, n).
func (s *Sampler) Intn(n int) int {
	return s.rnd.Intn(n)
}

// Uniform01 returns a uniformly distributed real in [0, 1).
func (s *Sampler) Uniform01() float64 {
	return distuv.Uniform{Min: 0, Max: 1, Src: s.src}.Rand()
}

// Normal returns a normally distributed real. A zero stddev yields mean.
func (s *Sampler) Normal(mean, stddev float64) float64 {
	return distuv.Normal{Mu: mean, Sigma: stddev, Src: s.src}.Rand()
}

// WeightedIndexes draws k indexes into weights independently and with
// replacement, where index i is drawn with probability proportional to
// weights[i].
func (s *Sampler) WeightedIndexes(weights []float64, k int) ([]int, error) {
	if err := checkWeights(weights); err != nil {
		return nil, err
	}
	if k < 0 {
		return nil, fmt.Errorf("%w: negative sample size %d", cerr.InvalidParameter, k)
	}
	idxs := make([]int, k)
	if k == 0 {
		return idxs, nil
	}
	c := distuv.NewCategorical(weights, s.src)
	for i := range idxs {
		idxs[i] = int(c.Rand())
	}
	return idxs, nil
}

// IndexesWithoutReplacement draws k distinct indexes from [0, n), uniformly
// over all k-subsets. The order of the returned indexes is random. The cost
// is O(k) whatever n is.
func (s *Sampler) IndexesWithoutReplacement(n, k int) ([]int, error) {
	if n < 0 || k < 0 || k > n {
		return nil, fmt.Errorf("%w: cannot draw %d distinct items from %d", cerr.InvalidParameter, k, n)
	}
	idxs := make([]int, k)
	switch {
	case k == 0:
		// sampleuv rejects empty draws
	case k >= n/denseDrawRatio:
		// A full permutation of n costs O(k) here.
		sampleuv.WithoutReplacement(idxs, n, s.src)
	default:
		s.sparseShuffle(idxs, n)
	}
	return idxs, nil
}

// denseDrawRatio is the n/k ratio below which permuting all of [0, n) is no
// more expensive than a sparse shuffle.
const denseDrawRatio = 4

// sparseShuffle runs the first len(idxs) steps of a Fisher-Yates shuffle of
// [0, n), keeping only the displaced positions.
func (s *Sampler) sparseShuffle(idxs []int, n int) {
	moved := make(map[int]int, 2*len(idxs))
	at := func(i int) int {
		if v, ok := moved[i]; ok {
			return v
		}
		return i
	}
	for i := range idxs {
		j := i + s.rnd.Intn(n-i)
		idxs[i] = at(j)
		moved[j] = at(i)
	}
}

// WeightedChoice draws k items from population independently and with
// replacement, with P(item = population[i]) proportional to weights[i].
func WeightedChoice[T any](s *Sampler, population []T, weights []float64, k int) ([]T, error) {
	if len(population) != len(weights) {
		return nil, fmt.Errorf("%w: %d weights for a population of %d",
			cerr.InvalidParameter, len(weights), len(population))
	}
	idxs, err := s.WeightedIndexes(weights, k)
	if err != nil {
		return nil, err
	}
	items := make([]T, len(idxs))
	for i, idx := range idxs {
		items[i] = population[idx]
	}
	return items, nil
}

// SampleWithoutReplacement draws k distinct elements of population, uniformly
// over all k-subsets.
func SampleWithoutReplacement[T any](s *Sampler, population []T, k int) ([]T, error) {
	idxs, err := s.IndexesWithoutReplacement(len(population), k)
	if err != nil {
		return nil, err
	}
	items := make([]T, len(idxs))
	for i, idx := range idxs {
		items[i] = population[idx]
	}
	return items, nil
}

func checkWeights(weights []float64) error {
	if len(weights) == 0 {
		return fmt.Errorf("%w: empty weight vector", cerr.InvalidParameter)
	}
	var total float64
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: weight %d is %v", cerr.InvalidParameter, i, w)
		}
		total += w
	}
	if total == 0 {
		return fmt.Errorf("%w: weights sum to zero", cerr.InvalidParameter)
	}
	return nil
}
