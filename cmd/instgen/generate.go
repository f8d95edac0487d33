// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/petenewcomb/instgen-go"
	"github.com/petenewcomb/instgen-go/instance"
	"github.com/petenewcomb/instgen-go/internal/tsv"
	"github.com/petenewcomb/instgen-go/variate"
)

func runGenerate(ctx context.Context, e *env, args []string) error {
	fs, setup := e.newFlagSet("generate")
	dataset := fs.String("dataset", fixedDatasetFile, "base dataset `file`")
	kind := instgen.Arbitrary
	fs.TextVar(&kind, "kind", instgen.Arbitrary, "graph `kind` (arbitrary, normal, threshold)")
	density := fs.Float64("density", 0.05, "target interference `density` in [0, 1]")
	scale := fs.Int("scale", 0, "resample the dataset to `n` applications; 0 uses it as is")
	seed := fs.Uint64("seed", 0, "random `seed`; 0 picks one from the clock")
	out := fs.String("o", "", "output `file`; standard output when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := setup(); err != nil {
		return err
	}
	defer e.sync()

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	s := variate.NewSeeded(*seed)

	table, err := tsv.ReadTableFile(*dataset)
	if err != nil {
		return err
	}
	if *scale != 0 {
		table, err = instance.Resample(table, *scale, instance.ReplicaDistributionOf(table), s.Split())
		if err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	inst, err := instgen.NewGenerator(instgen.WithLogger(e.logger)).Generate(kind, table, *density, s)
	if err != nil {
		return err
	}
	if *out == "" {
		w := tsv.NewWriter(e.stdout)
		if err := w.WriteAll(inst.Rows); err != nil {
			return err
		}
	} else if err := tsv.WriteFile(*out, inst.Rows); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}
	e.logger.Info("Generated instance",
		zap.Stringer("kind", kind),
		zap.Int("applications", table.Len()),
		zap.Uint64("seed", *seed),
		zap.Int("edges", inst.Edges()),
		zap.Float64("achieved_density", inst.Graph.Density()))
	return nil
}
