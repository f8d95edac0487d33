// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/petenewcomb/instgen-go/instance"
	"github.com/petenewcomb/instgen-go/internal/trace"
	"github.com/petenewcomb/instgen-go/internal/tsv"
)

const (
	fixedDatasetFile  = "TClab_dataset_2D.csv"
	seriesDatasetFile = "TClab_dataset_TS.csv"
)

func runExtract(ctx context.Context, e *env, args []string) error {
	fs, setup := e.newFlagSet("extract")
	traceDir := fs.String("trace-dir", ".", "`directory` holding "+trace.ResourcesFile+", "+
		trace.DeploymentsFile+", and "+trace.InterferenceFile)
	out := fs.String("out", ".", "output `directory`")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := setup(); err != nil {
		return err
	}
	defer e.sync()

	ds, err := trace.ExtractDir(*traceDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}
	for _, f := range []struct {
		name string
		rows []instance.Row
	}{
		{fixedDatasetFile, ds.Fixed},
		{seriesDatasetFile, ds.Series},
	} {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(*out, f.name)
		if err := tsv.WriteFile(path, f.rows); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		e.logger.Info("Wrote dataset", zap.String("file", path), zap.Int("applications", len(f.rows)))
	}
	return nil
}
