// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/petenewcomb/instgen-go/internal/trace"
	"github.com/petenewcomb/instgen-go/internal/tsv"
	"github.com/stretchr/testify/require"
)

// writeTrace writes raw trace files describing n applications.
func writeTrace(t *testing.T, dir string, n int) {
	var res, dep, inter strings.Builder
	inst := 0
	for id := 1; id <= n; id++ {
		fmt.Fprintf(&res, "app_%d,%d.5|1.0,%d.0|2.0\n", id, id%4, id%6+1)
		for range id%3 + 1 {
			inst++
			fmt.Fprintf(&dep, "inst_%d,app_%d,machine_%d\n", inst, id, inst%5)
		}
		if id > 1 {
			fmt.Fprintf(&inter, "app_%d,app_%d,%d\n", id, id-1, id%2)
		}
	}
	for name, content := range map[string]string{
		trace.ResourcesFile:    res.String(),
		trace.DeploymentsFile:  dep.String(),
		trace.InterferenceFile: inter.String(),
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func runCmd(t *testing.T, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	t.Log(stderr.String())
	return stdout.String(), err
}

func TestCommands(t *testing.T) {
	chk := require.New(t)
	dir := t.TempDir()
	traceDir := filepath.Join(dir, "trace")
	chk.NoError(os.Mkdir(traceDir, 0o755))
	writeTrace(t, traceDir, 15)

	data := filepath.Join(dir, "data")
	_, err := runCmd(t, "extract", "-trace-dir", traceDir, "-out", data)
	chk.NoError(err)
	fixed, err := tsv.ReadTableFile(filepath.Join(data, fixedDatasetFile))
	chk.NoError(err)
	chk.Equal(15, fixed.Len())
	series, err := tsv.ReadTableFile(filepath.Join(data, seriesDatasetFile))
	chk.NoError(err)
	chk.True(series.TimeSeries())

	out, err := runCmd(t, "generate",
		"-dataset", filepath.Join(data, fixedDatasetFile),
		"-kind", "threshold", "-density", "0.3", "-seed", "5")
	chk.NoError(err)
	rows, err := tsv.ReadDataset(strings.NewReader(out))
	chk.NoError(err)
	chk.Len(rows, 15)
	again, err := runCmd(t, "generate",
		"-dataset", filepath.Join(data, fixedDatasetFile),
		"-kind", "threshold", "-density", "0.3", "-seed", "5")
	chk.NoError(err)
	chk.Equal(out, again)

	instances := filepath.Join(dir, "instances")
	config := filepath.Join(dir, "sweep.yaml")
	chk.NoError(os.WriteFile(config, []byte(
		"kinds: [arbitrary, normal]\n"+
			"densities: [0.1, 0.2]\n"+
			"replicates: 2\n"+
			"scales: [30]\n"+
			"naming: large\n"+
			"seed: 3\n"), 0o644))
	metrics := filepath.Join(dir, "metrics.prom")
	spans := filepath.Join(dir, "trace.json")
	_, err = runCmd(t, "sweep",
		"-config", config,
		"-dataset", filepath.Join(data, fixedDatasetFile),
		"-output", instances,
		"-workers", "2",
		"-metrics", metrics,
		"-trace", spans)
	chk.NoError(err)
	entries, err := os.ReadDir(instances)
	chk.NoError(err)
	chk.Len(entries, 2*2*2)
	chk.FileExists(filepath.Join(instances, "large_scale_30_normal_d2_1.csv"))

	text, err := os.ReadFile(metrics)
	chk.NoError(err)
	chk.Contains(string(text), `instgen_instances_total{kind="normal"} 4`)
	text, err = os.ReadFile(spans)
	chk.NoError(err)
	chk.Contains(string(text), `"Name": "sweep"`)
}

func TestUsageErrors(t *testing.T) {
	chk := require.New(t)
	_, err := runCmd(t)
	chk.ErrorIs(err, flag.ErrHelp)
	_, err = runCmd(t, "frobnicate")
	chk.ErrorContains(err, "unknown command")
	_, err = runCmd(t, "sweep")
	chk.ErrorContains(err, "required")
	_, err = runCmd(t, "sweep", "-config", "a.yaml", "-preset", "density")
	chk.ErrorContains(err, "mutually exclusive")
	_, err = runCmd(t, "sweep", "-preset", "density", "-log-level", "loud")
	chk.ErrorContains(err, "-log-level")
	_, err = runCmd(t, "generate", "-kind", "ring")
	chk.Error(err)
}
