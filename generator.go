// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package instgen

import (
	"fmt"

	"github.com/petenewcomb/instgen-go/affinity"
	"github.com/petenewcomb/instgen-go/graph"
	"github.com/petenewcomb/instgen-go/instance"
	"github.com/petenewcomb/instgen-go/variate"
	"go.uber.org/zap"
)

// Instance is one generated workload-placement instance.
type Instance struct {
	Kind    Kind
	Density float64
	Graph   *graph.Digraph
	Rows    []instance.Row
}

// Edges returns the number of interference edges in the instance.
func (inst *Instance) Edges() int {
	return inst.Graph.Size()
}

// A Generator turns base tables into instances. The zero value is not usable;
// create one with [NewGenerator]. A Generator holds no per-call state and may
// be shared between goroutines as long as each call gets its own sampler.
type Generator struct {
	labeler *affinity.Labeler
	logger  *zap.Logger
}

// An Option configures a [Generator].
type Option func(*Generator)

// WithDistribution replaces the default [affinity.TClab] category
// distribution.
func WithDistribution(dist affinity.Distribution) Option {
	return func(g *Generator) {
		g.labeler = affinity.NewLabeler(dist)
	}
}

// WithLogger sets the logger used for per-instance debug output. A nil logger
// disables logging.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator returns a Generator labeling edges with [affinity.TClab]
// unless an option says otherwise.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		labeler: affinity.NewLabeler(affinity.TClab),
		logger:  zap.L(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	return g
}

// Labeler returns the generator's affinity labeler.
func (g *Generator) Labeler() *affinity.Labeler {
	return g.labeler
}

// Generate builds a graph of the given kind over the ids of table, labels its
// edges, and joins the result onto table. Parameter errors wrap
// [ErrInvalidParameter]; join mismatches wrap [ErrConsistency].
func (g *Generator) Generate(kind Kind, table *instance.Table, density float64, s *variate.Sampler) (*Instance, error) {
	if s == nil {
		panic("sampler must be non-nil")
	}
	if !kind.valid() {
		return nil, fmt.Errorf("%w: unknown graph kind %d", ErrInvalidParameter, int(kind))
	}
	dg, err := kind.GenerateFunc()(table.Len(), density, s)
	if err != nil {
		return nil, err
	}
	records, err := g.labeler.Label(dg, s)
	if err != nil {
		return nil, err
	}
	rows, err := instance.Assemble(table, records)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("Generated instance",
		zap.Stringer("kind", kind),
		zap.Int("applications", dg.Order()),
		zap.Float64("density", density),
		zap.Int("edges", dg.Size()),
		zap.Float64("achieved_density", dg.Density()))
	return &Instance{
		Kind:    kind,
		Density: density,
		Graph:   dg,
		Rows:    rows,
	}, nil
}
