// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package instance

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/petenewcomb/instgen-go/internal/cerr"
	"github.com/petenewcomb/instgen-go/variate"
)

// ReplicaDistribution is an empirical distribution of replica counts.
type ReplicaDistribution struct {
	Values  []int
	Weights []float64
}

// ReplicaDistributionOf counts the replica values of table. Values are
// ordered by decreasing frequency, ties broken by increasing value.
func ReplicaDistributionOf(table *Table) ReplicaDistribution {
	counts := make(map[int]int)
	for _, app := range table.Apps() {
		counts[app.Replicas]++
	}
	values := slices.Collect(maps.Keys(counts))
	slices.SortFunc(values, func(a, b int) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	weights := make([]float64, len(values))
	for i, v := range values {
		weights[i] = float64(counts[v])
	}
	return ReplicaDistribution{Values: values, Weights: weights}
}

// Resample builds an n-application table by drawing rows of source uniformly
// with replacement, numbering them 1..n, and giving each a replica count
// drawn from replicas. Demands are shared with source, not copied.
func Resample(source *Table, n int, replicas ReplicaDistribution, s *variate.Sampler) (*Table, error) {
	if s == nil {
		panic("sampler must be non-nil")
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: cannot resample %d applications", cerr.InvalidParameter, n)
	}
	for _, v := range replicas.Values {
		if v <= 0 {
			return nil, fmt.Errorf("%w: replica value %d is not positive", cerr.InvalidParameter, v)
		}
	}

	apps := make([]Application, n)
	for i := range apps {
		src := source.App(s.Intn(source.Len()) + 1)
		apps[i] = Application{ID: i + 1, Demand: src.Demand}
	}
	counts, err := variate.WeightedChoice(s, replicas.Values, replicas.Weights, n)
	if err != nil {
		return nil, err
	}
	for i := range apps {
		apps[i].Replicas = counts[i]
	}
	return NewTable(apps)
}
