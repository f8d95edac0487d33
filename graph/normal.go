// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package graph

import (
	"math"

	"github.com/petenewcomb/instgen-go/variate"
)

// NormalDegree returns a graph in which every node's out-degree is drawn
// independently from Normal(n*density, n*density/2), rounded half to even and
// clipped to [0, n-1]. Each node's targets are then chosen uniformly without
// replacement among the other n-1 nodes.
//
// Nodes are processed in order 1..n, each consuming one normal draw followed
// by one draw without replacement. No correction is applied across nodes, so
// the achieved density only approximates the requested one.
func NormalDegree(n int, density float64, s *variate.Sampler) (*Digraph, error) {
	if s == nil {
		panic("sampler must be non-nil")
	}
	if err := checkParams(n, density); err != nil {
		return nil, err
	}
	mean := float64(n) * density
	stddev := mean / 2

	g := New(n)
	for a := 1; a <= n; a++ {
		k := ClipDegree(s.Normal(mean, stddev), n)
		idxs, err := s.IndexesWithoutReplacement(n-1, k)
		if err != nil {
			return nil, err
		}
		targets := make([]int, k)
		for i, idx := range idxs {
			// Map [0, n-1) onto the nodes other than a.
			v := idx + 1
			if v >= a {
				v++
			}
			targets[i] = v
		}
		g.out[a-1] = targets
		g.size += k
	}
	return g, nil
}

// ClipDegree rounds x half to even and clips it into [0, n-1].
func ClipDegree(x float64, n int) int {
	k := math.RoundToEven(x)
	if k < 0 || math.IsNaN(k) {
		return 0
	}
	if k > float64(n-1) {
		return n - 1
	}
	return int(k)
}
