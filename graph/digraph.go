// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package graph builds random directed simple graphs over the dense node set
// {1, ..., n} with a prescribed edge density. Three generators are provided,
// each producing a different degree-distribution shape:
//
//   - [Arbitrary] hits an exact edge count by rejection sampling node pairs.
//   - [NormalDegree] draws each node's out-degree from a clipped normal
//     distribution and picks its targets uniformly.
//   - [Threshold] gives each node latent in- and out-scores and connects a
//     pair when their average falls under a threshold calibrated from the
//     density.
//
// Density is always |E| / (n(n-1)): self-loops are never generated.
package graph

import (
	"fmt"
	"iter"
	"math"

	"github.com/petenewcomb/instgen-go/internal/cerr"
	"github.com/petenewcomb/instgen-go/variate"
)

// A GenerateFunc builds a directed graph with n nodes whose expected edge
// density is density, drawing randomness from s.
type GenerateFunc func(n int, density float64, s *variate.Sampler) (*Digraph, error)

// Digraph is a directed simple graph over the nodes 1..n, stored as one
// out-neighbor list per node. The zero value is a graph with no nodes.
type Digraph struct {
	out  [][]int // out[u-1] lists the targets of edges leaving u
	size int
}

// New returns an edgeless graph over the nodes 1..n.
func New(n int) *Digraph {
	if n < 0 {
		panic("negative node count")
	}
	return &Digraph{
		out: make([][]int, n),
	}
}

// Order returns the number of nodes.
func (g *Digraph) Order() int {
	return len(g.out)
}

// Size returns the number of edges.
func (g *Digraph) Size() int {
	return g.size
}

// Density returns Size() / (n(n-1)), or zero for graphs with fewer than two
// nodes.
func (g *Digraph) Density() float64 {
	n := g.Order()
	if n < 2 {
		return 0
	}
	return float64(g.size) / (float64(n) * float64(n-1))
}

// OutNeighbors returns the targets of the edges leaving u in the order they
// were added. The returned slice must not be modified.
func (g *Digraph) OutNeighbors(u int) []int {
	g.checkNode(u)
	return g.out[u-1]
}

// OutDegree returns the number of edges leaving u.
func (g *Digraph) OutDegree(u int) int {
	return len(g.OutNeighbors(u))
}

// HasEdge reports whether the edge (u, v) exists. It scans u's neighbor list
// and is meant for inspection rather than for use inside generators.
func (g *Digraph) HasEdge(u, v int) bool {
	for _, w := range g.OutNeighbors(u) {
		if w == v {
			return true
		}
	}
	return false
}

// AddEdge appends the edge (u, v). It panics on a self-loop or an unknown
// node. Callers are responsible for not adding the same edge twice.
func (g *Digraph) AddEdge(u, v int) {
	g.checkNode(u)
	g.checkNode(v)
	if u == v {
		panic(fmt.Sprintf("self-loop on node %d", u))
	}
	g.addEdge(u, v)
}

func (g *Digraph) addEdge(u, v int) {
	g.out[u-1] = append(g.out[u-1], v)
	g.size++
}

// Edges yields every edge (u, v), grouped by source node in ascending order.
func (g *Digraph) Edges() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for i, targets := range g.out {
			for _, v := range targets {
				if !yield(i+1, v) {
					return
				}
			}
		}
	}
}

// Complement returns the graph over the same nodes whose edges are exactly
// the ordered pairs (u, v), u != v, that are not edges of g. Neighbor lists
// of the result are in ascending order.
func (g *Digraph) Complement() *Digraph {
	n := g.Order()
	c := New(n)
	mark := make([]bool, n+1)
	for u := 1; u <= n; u++ {
		targets := g.out[u-1]
		for _, v := range targets {
			mark[v] = true
		}
		list := make([]int, 0, max(0, n-1-len(targets)))
		for v := 1; v <= n; v++ {
			if v != u && !mark[v] {
				list = append(list, v)
			}
		}
		for _, v := range targets {
			mark[v] = false
		}
		c.out[u-1] = list
		c.size += len(list)
	}
	return c
}

func (g *Digraph) checkNode(u int) {
	if u < 1 || u > len(g.out) {
		panic(fmt.Sprintf("node %d outside 1..%d", u, len(g.out)))
	}
}

// PossibleEdges returns n(n-1), the number of ordered pairs of distinct
// nodes, as a float64 so that it stays exact for n up to well beyond 10^5.
func PossibleEdges(n int) float64 {
	return float64(n) * float64(n-1)
}

// TargetEdges returns floor(density * n * (n-1)).
func TargetEdges(n int, density float64) int {
	return int(math.Floor(density * float64(n) * float64(n-1)))
}

func checkParams(n int, density float64) error {
	if n < 2 {
		return fmt.Errorf("%w: need at least 2 nodes, got %d", cerr.InvalidParameter, n)
	}
	if math.IsNaN(density) || density < 0 || density > 1 {
		return fmt.Errorf("%w: density %v outside [0, 1]", cerr.InvalidParameter, density)
	}
	return nil
}
