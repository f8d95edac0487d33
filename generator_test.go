// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package instgen_test

import (
	"testing"

	"github.com/petenewcomb/instgen-go"
	"github.com/petenewcomb/instgen-go/affinity"
	"github.com/petenewcomb/instgen-go/instance"
	"github.com/petenewcomb/instgen-go/internal/draw"
	"github.com/petenewcomb/instgen-go/variate"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"
)

func TestKindText(t *testing.T) {
	chk := require.New(t)
	for _, k := range instgen.Kinds {
		text, err := k.MarshalText()
		chk.NoError(err)
		var parsed instgen.Kind
		chk.NoError(parsed.UnmarshalText(text))
		chk.Equal(k, parsed)
	}
	k, err := instgen.ParseKind("Threshold")
	chk.NoError(err)
	chk.Equal(instgen.Threshold, k)
	_, err = instgen.ParseKind("scale-free")
	chk.ErrorIs(err, instgen.ErrInvalidParameter)
	chk.Equal("Kind(7)", instgen.Kind(7).String())
	chk.PanicsWithValue("unknown graph kind 7", func() { instgen.Kind(7).GenerateFunc() })
}

func TestGenerate(t *testing.T) {
	gen := instgen.NewGenerator(instgen.WithLogger(nil))
	rapid.Check(t, func(t *rapid.T) {
		chk := require.New(t)
		n := draw.Nodes.Draw(t, "n")
		table := draw.Table(t, "table", n, rapid.Bool().Draw(t, "timeSeries"))
		kind := rapid.SampledFrom(instgen.Kinds).Draw(t, "kind")
		density := draw.Density.Draw(t, "density")
		s, _ := draw.Sampler(t, "sampler")

		inst, err := gen.Generate(kind, table, density, s)
		chk.NoError(err)
		chk.Equal(kind, inst.Kind)
		chk.Equal(density, inst.Density)
		chk.Len(inst.Rows, n)
		chk.Equal(inst.Edges(), instance.Edges(inst.Rows))
		for _, row := range inst.Rows {
			chk.Equal(row.Degree, len(row.Affinities))
			for _, p := range row.Affinities {
				chk.True(affinity.TClab.Contains(p.Category))
			}
		}
	})
}

func TestGenerateReproducible(t *testing.T) {
	chk := require.New(t)
	table := fixedTable(t, 40)
	gen := instgen.NewGenerator()
	for _, kind := range instgen.Kinds {
		a, err := gen.Generate(kind, table, 0.1, variate.NewSeeded(99))
		chk.NoError(err)
		b, err := gen.Generate(kind, table, 0.1, variate.NewSeeded(99))
		chk.NoError(err)
		chk.Equal(a.Rows, b.Rows, "kind %v", kind)
	}
}

func TestGenerateUnknownKind(t *testing.T) {
	chk := require.New(t)
	for _, kind := range []instgen.Kind{-1, instgen.Kind(len(instgen.Kinds))} {
		_, err := instgen.NewGenerator().Generate(kind, fixedTable(t, 5), 0.2, variate.NewSeeded(1))
		chk.ErrorIs(err, instgen.ErrInvalidParameter, "kind %d", int(kind))
	}
}

func TestGenerateInvalidDensity(t *testing.T) {
	chk := require.New(t)
	gen := instgen.NewGenerator()
	for _, kind := range instgen.Kinds {
		_, err := gen.Generate(kind, fixedTable(t, 5), 1.5, variate.NewSeeded(1))
		chk.ErrorIs(err, instgen.ErrInvalidParameter)
	}
}

func TestGenerateSingleApplication(t *testing.T) {
	chk := require.New(t)
	_, err := instgen.NewGenerator().Generate(instgen.Normal, fixedTable(t, 1), 0.1, variate.NewSeeded(1))
	chk.ErrorIs(err, instgen.ErrInvalidParameter)
}

func TestGenerateCustomDistribution(t *testing.T) {
	chk := require.New(t)
	dist, err := affinity.NewDistribution([]int{42}, []float64{1})
	chk.NoError(err)
	gen := instgen.NewGenerator(instgen.WithDistribution(dist))
	inst, err := gen.Generate(instgen.Arbitrary, fixedTable(t, 10), 0.5, variate.NewSeeded(4))
	chk.NoError(err)
	chk.Equal(45, inst.Edges())
	for _, row := range inst.Rows {
		for _, p := range row.Affinities {
			chk.Equal(42, p.Category)
		}
	}
}

func TestGenerateLogs(t *testing.T) {
	chk := require.New(t)
	core, logs := observer.New(zap.DebugLevel)
	gen := instgen.NewGenerator(instgen.WithLogger(zap.New(core)))
	_, err := gen.Generate(instgen.Threshold, fixedTable(t, 20), 0.2, variate.NewSeeded(8))
	chk.NoError(err)
	entries := logs.FilterMessage("Generated instance").All()
	chk.Len(entries, 1)
	fields := entries[0].ContextMap()
	chk.Equal("threshold", fields["kind"])
	chk.EqualValues(20, fields["applications"])
}

func fixedTable(t *testing.T, n int) *instance.Table {
	apps := make([]instance.Application, n)
	for i := range apps {
		apps[i] = instance.Application{
			ID:       i + 1,
			Replicas: 1 + i%4,
			Demand:   instance.FixedDemand{Core: 1 + i%8, Memory: 2 + i%16},
		}
	}
	table, err := instance.NewTable(apps)
	require.NoError(t, err)
	return table
}
