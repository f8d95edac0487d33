// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package telemetry_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/petenewcomb/instgen-go/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	chk := require.New(t)
	var buf bytes.Buffer
	logger, atom, err := telemetry.NewLogger("info", false, zapcore.AddSync(&buf))
	chk.NoError(err)
	logger.Debug("hidden")
	logger.Info("shown", zap.Int("n", 3))
	atom.SetLevel(zap.DebugLevel)
	logger.Debug("now shown")
	chk.NoError(logger.Sync())

	out := buf.String()
	chk.NotContains(out, "hidden")
	chk.Contains(out, `"msg":"shown"`)
	chk.Contains(out, `"n":3`)
	chk.Contains(out, "now shown")
}

func TestNewLoggerBadLevel(t *testing.T) {
	_, _, err := telemetry.NewLogger("loud", true, zapcore.AddSync(&bytes.Buffer{}))
	require.Error(t, err)
}

func TestMetrics(t *testing.T) {
	chk := require.New(t)
	m, err := telemetry.NewMetrics()
	chk.NoError(err)
	m.ObserveInstance("arbitrary", 10, time.Millisecond)
	m.ObserveInstance("arbitrary", 5, time.Millisecond)
	m.ObserveInstance("normal", 7, time.Millisecond)
	m.ObserveTable()

	chk.NoError(testutil.GatherAndCompare(m.Registry(), strings.NewReader(`
# HELP instgen_edges_total Number of interference edges generated
# TYPE instgen_edges_total counter
instgen_edges_total{kind="arbitrary"} 15
instgen_edges_total{kind="normal"} 7
# HELP instgen_base_tables_total Number of base tables prepared
# TYPE instgen_base_tables_total counter
instgen_base_tables_total 1
`), "instgen_edges_total", "instgen_base_tables_total"))

	path := filepath.Join(t.TempDir(), "instgen.prom")
	chk.NoError(m.WriteTextfile(path))
	content, err := os.ReadFile(path)
	chk.NoError(err)
	chk.Contains(string(content), `instgen_instances_total{kind="arbitrary"} 2`)
}

func TestNilMetrics(t *testing.T) {
	var m *telemetry.Metrics
	require.NotPanics(t, func() {
		m.ObserveInstance("normal", 1, time.Second)
		m.ObserveTable()
		m.ObserveFailure()
	})
}

func TestStartTracing(t *testing.T) {
	chk := require.New(t)
	var buf bytes.Buffer
	shutdown, err := telemetry.StartTracing(&buf)
	chk.NoError(err)
	_, span := telemetry.Tracer().Start(context.Background(), "probe")
	span.End()
	chk.NoError(shutdown(context.Background()))
	chk.Contains(buf.String(), `"Name": "probe"`)
}
