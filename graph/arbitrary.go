// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package graph

import (
	"github.com/petenewcomb/instgen-go/variate"
)

// Arbitrary returns a graph with exactly TargetEdges(n, density) distinct
// edges chosen uniformly among all ordered pairs of distinct nodes.
//
// Edges are found by drawing random pairs and rejecting self-loops and
// duplicates. Above density 0.5 the generator instead builds a graph of
// density 1-density and returns its complement, which keeps the rejection
// rate under one half. In that case the result has
// n(n-1) - TargetEdges(n, 1-density) edges.
func Arbitrary(n int, density float64, s *variate.Sampler) (*Digraph, error) {
	if s == nil {
		panic("sampler must be non-nil")
	}
	if err := checkParams(n, density); err != nil {
		return nil, err
	}
	if density > 0.5 {
		return arbitrary(n, 1-density, s).Complement(), nil
	}
	return arbitrary(n, density, s), nil
}

func arbitrary(n int, density float64, s *variate.Sampler) *Digraph {
	g := New(n)
	target := TargetEdges(n, density)
	if target == 0 {
		return g
	}
	seen := newPairSet(n, target)
	for g.size < target {
		u := s.Intn(n) + 1
		v := s.Intn(n) + 1
		if u == v {
			continue
		}
		if seen.insert(u, v) {
			g.addEdge(u, v)
		}
	}
	return g
}

// pairSet records which ordered pairs have already been drawn.
type pairSet interface {
	// insert adds (u, v) and reports whether it was absent.
	insert(u, v int) bool
}

// Bytes per entry assumed for a hashed set; used only to pick a
// representation.
const hashedPairCost = 48

func newPairSet(n, capacity int) pairSet {
	bits := PossibleEdges(n) + float64(n)
	if bits/8 <= float64(capacity)*hashedPairCost {
		return newDensePairSet(n)
	}
	return make(hashedPairSet, capacity)
}

// densePairSet is a bitmap over the n*n grid of pairs.
type densePairSet struct {
	n     int
	words []uint64
}

func newDensePairSet(n int) *densePairSet {
	cells := uint64(n) * uint64(n)
	return &densePairSet{
		n:     n,
		words: make([]uint64, (cells+63)/64),
	}
}

func (ps *densePairSet) insert(u, v int) bool {
	cell := uint64(u-1)*uint64(ps.n) + uint64(v-1)
	word, bit := cell/64, uint64(1)<<(cell%64)
	if ps.words[word]&bit != 0 {
		return false
	}
	ps.words[word] |= bit
	return true
}

// hashedPairSet suits sparse graphs where a full bitmap would dwarf the
// edges themselves.
type hashedPairSet map[uint64]struct{}

func (ps hashedPairSet) insert(u, v int) bool {
	key := uint64(u)<<32 | uint64(v)
	if _, ok := ps[key]; ok {
		return false
	}
	ps[key] = struct{}{}
	return true
}
