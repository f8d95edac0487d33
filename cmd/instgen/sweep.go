// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/petenewcomb/instgen-go/internal/sweep"
	"github.com/petenewcomb/instgen-go/internal/telemetry"
	"github.com/petenewcomb/instgen-go/internal/tsv"
)

func runSweep(ctx context.Context, e *env, args []string) (err error) {
	fs, setup := e.newFlagSet("sweep")
	configPath := fs.String("config", "", "YAML sweep configuration `file`")
	preset := fs.String("preset", "", "built-in `configuration` ("+strings.Join(sweep.PresetNames(), ", ")+")")
	dataset := fs.String("dataset", "", "base dataset `file`, overriding the configuration")
	output := fs.String("output", "", "output `directory`, overriding the configuration")
	workers := fs.Int("workers", 0, "concurrent tasks, overriding the configuration")
	seed := fs.Uint64("seed", 0, "sweep `seed`, overriding the configuration")
	metricsPath := fs.String("metrics", "", "write Prometheus metrics to this `file` when done")
	tracePath := fs.String("trace", "", "write trace spans as JSON to this `file`")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := setup(); err != nil {
		return err
	}
	defer e.sync()

	var cfg sweep.Config
	switch {
	case *configPath != "" && *preset != "":
		return errors.New("-config and -preset are mutually exclusive")
	case *configPath != "":
		cfg, err = sweep.LoadConfigFile(*configPath)
	case *preset != "":
		cfg, err = sweep.Preset(*preset)
	default:
		return errors.New("one of -config or -preset is required")
	}
	if err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dataset":
			cfg.Dataset = *dataset
		case "output":
			cfg.Output = *output
		case "workers":
			cfg.Workers = *workers
		case "seed":
			cfg.Seed = *seed
		}
	})
	if cfg.Dataset == "" {
		cfg.Dataset = fixedDatasetFile
	}
	if cfg.Output == "" {
		cfg.Output = "instances"
	}

	if *tracePath != "" {
		f, err := os.Create(*tracePath)
		if err != nil {
			return err
		}
		defer f.Close()
		shutdown, err := telemetry.StartTracing(f)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, shutdown(context.Background()))
		}()
	}

	var metrics *telemetry.Metrics
	if *metricsPath != "" {
		metrics, err = telemetry.NewMetrics()
		if err != nil {
			return err
		}
		defer func() {
			if werr := metrics.WriteTextfile(*metricsPath); werr != nil {
				err = errors.Join(err, fmt.Errorf("writing metrics: %w", werr))
			}
		}()
	}

	source, err := tsv.ReadTableFile(cfg.Dataset)
	if err != nil {
		return err
	}
	r, err := sweep.NewRunner(cfg, source,
		sweep.WithLogger(e.logger),
		sweep.WithMetrics(metrics))
	if err != nil {
		return err
	}
	cfg = r.Config()
	e.logger.Info("Starting sweep",
		zap.String("dataset", cfg.Dataset),
		zap.Int("applications", source.Len()),
		zap.String("output", cfg.Output),
		zap.Stringer("naming", cfg.Naming),
		zap.Int("groups", len(r.Groups())),
		zap.Int("workers", cfg.Workers),
		zap.Uint64("seed", cfg.Seed))

	start := time.Now()
	results, err := r.Run(ctx)
	e.logger.Info("Finished sweep",
		zap.Int("instances", len(results)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))
	return err
}
