// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package graph

import (
	"math"

	"github.com/petenewcomb/instgen-go/variate"
)

// Threshold returns a graph built from latent scores. Every node u receives
// an in-score and an out-score, both uniform in [0, 1): all in-scores are
// drawn first, then all out-scores. The edge (u, v) exists when
// (outScore(u) + inScore(v)) / 2 <= ThresholdFor(n, density).
//
// Every ordered pair is examined, so the cost is quadratic in n. Only the
// 2n scores are stored. Neighbor lists come out in ascending order.
func Threshold(n int, density float64, s *variate.Sampler) (*Digraph, error) {
	if s == nil {
		panic("sampler must be non-nil")
	}
	if err := checkParams(n, density); err != nil {
		return nil, err
	}
	tau := ThresholdFor(n, density)

	in := make([]float64, n)
	for i := range in {
		in[i] = s.Uniform01()
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = s.Uniform01()
	}

	g := New(n)
	for u := range n {
		for v := u + 1; v < n; v++ {
			if (out[u]+in[v])/2 <= tau {
				g.addEdge(u+1, v+1)
			}
			if (out[v]+in[u])/2 <= tau {
				g.addEdge(v+1, u+1)
			}
		}
	}
	return g, nil
}

// ThresholdFor returns the score threshold whose expected edge density is
// density:
//
//	density <= 0.5: tau = (1 + sqrt(1 + 8n(n-1)density)) / 4n
//	density >  0.5: tau = 1 + (1 - sqrt(1 + 8n(n-1)(1-density))) / 4n
//
// The result is unspecified for densities outside [0, 1].
func ThresholdFor(n int, density float64) float64 {
	pairs := PossibleEdges(n)
	scale := 4 * float64(n)
	if density <= 0.5 {
		return (1 + math.Sqrt(1+8*pairs*density)) / scale
	}
	return 1 + (1-math.Sqrt(1+8*pairs*(1-density)))/scale
}

// ThresholdDensity inverts ThresholdFor, returning the density whose
// threshold is tau. Thresholds up to 0.5 are read on the low-density branch.
func ThresholdDensity(n int, tau float64) float64 {
	pairs := PossibleEdges(n)
	scale := 4 * float64(n)
	if tau <= 0.5 {
		r := scale*tau - 1
		return (r*r - 1) / (8 * pairs)
	}
	r := 1 + scale*(1-tau)
	return 1 - (r*r-1)/(8*pairs)
}
