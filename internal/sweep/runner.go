// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package sweep

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/addrummond/heap"
	"github.com/gammazero/deque"
	"github.com/petenewcomb/instgen-go"
	"github.com/petenewcomb/instgen-go/instance"
	"github.com/petenewcomb/instgen-go/internal/telemetry"
	"github.com/petenewcomb/instgen-go/internal/tsv"
	"github.com/petenewcomb/instgen-go/variate"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Result describes one written instance.
type Result struct {
	Cell  *Cell
	Path  string
	Edges int
	// AchievedDensity is the realized edge density.
	AchievedDensity float64
	Elapsed         time.Duration
}

// WriteFunc persists the rows of one instance at path. It is called from
// task goroutines and must be thread-safe.
type WriteFunc func(path string, rows []instance.Row) error

// Runner executes a sweep against a source table.
type Runner struct {
	cfg      Config
	groups   []*Group
	cells    int
	source   *instance.Table
	replicas instance.ReplicaDistribution
	gen      *instgen.Generator
	write    WriteFunc
	logger   *zap.Logger
	metrics  *telemetry.Metrics
	tracer   trace.Tracer
}

// An Option configures a [Runner].
type Option func(*Runner)

// WithLogger sets the logger; nil disables logging.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithMetrics records sweep progress in m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithGenerator replaces the default generator, which logs to the runner's
// logger.
func WithGenerator(gen *instgen.Generator) Option {
	return func(r *Runner) {
		r.gen = gen
	}
}

// WithWriteFunc replaces the default writer, [tsv.WriteFile].
func WithWriteFunc(write WriteFunc) Option {
	return func(r *Runner) {
		r.write = write
	}
}

// NewRunner normalizes cfg and plans the sweep over source.
func NewRunner(cfg Config, source *instance.Table, opts ...Option) (*Runner, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	groups, err := cfg.Plan(source.Len())
	if err != nil {
		return nil, err
	}
	r := &Runner{
		cfg:      cfg,
		groups:   groups,
		source:   source,
		replicas: instance.ReplicaDistributionOf(source),
		write:    tsv.WriteFile,
		logger:   zap.L(),
		tracer:   telemetry.Tracer(),
	}
	for _, g := range groups {
		r.cells += len(g.Cells)
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.gen == nil {
		r.gen = instgen.NewGenerator(instgen.WithLogger(r.logger))
	}
	return r, nil
}

// Config returns the normalized configuration.
func (r *Runner) Config() Config {
	return r.cfg
}

// Groups returns the planned groups. They must not be modified.
func (r *Runner) Groups() []*Group {
	return r.groups
}

type baseTable struct {
	group *Group
	table *instance.Table
}

// pendingResult orders results by plan position.
type pendingResult struct {
	Result
}

func (a *pendingResult) Cmp(b *pendingResult) int {
	return cmp.Compare(a.Cell.Index, b.Cell.Index)
}

// Run generates and writes every planned instance and returns the results
// in plan order. The first failure cancels the remaining work; results
// gathered before it are still returned.
func (r *Runner) Run(ctx context.Context) (results []Result, err error) {
	ctx, span := r.tracer.Start(ctx, "sweep", trace.WithAttributes(
		attribute.String("naming", r.cfg.Naming.String()),
		attribute.Int("groups", len(r.groups)),
		attribute.Int("instances", r.cells),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := os.MkdirAll(r.cfg.Output, 0o755); err != nil {
		return nil, err
	}

	job := NewJob(ctx)
	defer job.CancelAndWait()
	pool := NewPool(job, r.cfg.Workers)

	var pending deque.Deque[*Group]
	for _, g := range r.groups {
		pending.PushBack(g)
	}
	remaining := make(map[*Group]int)
	var live int

	var order heap.Heap[pendingResult, heap.Min]
	var next int
	results = make([]Result, 0, r.cells)

	var startGroups func(ctx context.Context) error

	cellGather := NewGather(func(ctx context.Context, res Result, err error) error {
		if err != nil {
			r.metrics.ObserveFailure()
			return err
		}
		r.metrics.ObserveInstance(res.Cell.Kind.String(), res.Edges, res.Elapsed)
		heap.PushOrderable(&order, pendingResult{res})
		for {
			top, ok := heap.Peek(&order)
			if !ok || top.Cell.Index != next {
				break
			}
			_, _ = heap.PopOrderable(&order)
			r.logger.Info("Wrote instance",
				zap.String("file", top.Path),
				zap.Stringer("kind", top.Cell.Kind),
				zap.Int("applications", top.Cell.Scale),
				zap.Float64("density", top.Cell.Density.Value),
				zap.Int("edges", top.Edges),
				zap.Duration("elapsed", top.Elapsed))
			results = append(results, top.Result)
			next++
		}

		g := res.Cell.Group
		remaining[g]--
		if remaining[g] > 0 {
			return nil
		}
		delete(remaining, g)
		live--
		return startGroups(ctx)
	})

	tableGather := NewGather(func(ctx context.Context, bt baseTable, err error) error {
		if err != nil {
			r.metrics.ObserveFailure()
			return err
		}
		r.metrics.ObserveTable()
		r.logger.Info("Prepared base table",
			zap.Int("group", bt.group.Index),
			zap.Int("applications", bt.table.Len()),
			zap.Bool("resampled", bt.group.Scale.Present()),
			zap.Int("replicate", bt.group.Replicate))
		remaining[bt.group] = len(bt.group.Cells)
		for _, c := range bt.group.Cells {
			if err := cellGather.Scatter(ctx, pool, r.cellTask(c, bt.table)); err != nil {
				return err
			}
		}
		return nil
	})

	startGroups = func(ctx context.Context) error {
		for live < r.cfg.MaxTables && pending.Len() > 0 {
			g := pending.PopFront()
			live++
			if err := tableGather.Scatter(ctx, pool, r.tableTask(g)); err != nil {
				return err
			}
		}
		return nil
	}

	if err := startGroups(ctx); err != nil {
		return results, err
	}
	if err := job.GatherAll(ctx); err != nil {
		return results, err
	}
	return results, nil
}

func (r *Runner) tableTask(g *Group) TaskFunc[baseTable] {
	return func(ctx context.Context) (baseTable, error) {
		if !g.Scale.Present() {
			return baseTable{group: g, table: r.source}, nil
		}
		scale, _ := g.Scale.Get()
		_, span := r.tracer.Start(ctx, "resample", trace.WithAttributes(
			attribute.Int("scale", scale),
			attribute.Int("replicate", g.Replicate),
		))
		defer span.End()
		table, err := instance.Resample(r.source, scale, r.replicas, variate.NewSeeded(g.Seed))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return baseTable{}, fmt.Errorf("resampling %d applications: %w", scale, err)
		}
		return baseTable{group: g, table: table}, nil
	}
}

func (r *Runner) cellTask(c *Cell, table *instance.Table) TaskFunc[Result] {
	return func(ctx context.Context) (Result, error) {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		_, span := r.tracer.Start(ctx, "instance", trace.WithAttributes(
			attribute.String("kind", c.Kind.String()),
			attribute.Float64("density", c.Density.Value),
			attribute.Int("scale", c.Scale),
			attribute.Int("replicate", c.Replicate),
		))
		defer span.End()
		fail := func(err error) (Result, error) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return Result{}, fmt.Errorf("%s: %w", c.Name, err)
		}

		start := time.Now()
		inst, err := r.gen.Generate(c.Kind, table, c.Density.Value, variate.NewSeeded(c.Seed))
		if err != nil {
			return fail(err)
		}
		path := filepath.Join(r.cfg.Output, c.Name)
		if err := r.write(path, inst.Rows); err != nil {
			return fail(err)
		}
		span.SetAttributes(attribute.Int("edges", inst.Edges()))
		return Result{
			Cell:            c,
			Path:            path,
			Edges:           inst.Edges(),
			AchievedDensity: inst.Graph.Density(),
			Elapsed:         time.Since(start),
		}, nil
	}
}
