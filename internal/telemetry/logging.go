// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package telemetry wires up the logging, tracing, and metrics used by the
// command-line tools and the sweep runner.
package telemetry

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a logger writing to w at the given level, which may be
// changed later through the returned AtomicLevel. Development loggers use
// the console encoder; others emit JSON.
func NewLogger(level string, development bool, w zapcore.WriteSyncer) (*zap.Logger, zap.AtomicLevel, error) {
	atom := zap.NewAtomicLevel()
	if err := atom.UnmarshalText([]byte(level)); err != nil {
		return nil, atom, err
	}

	var encoder zapcore.Encoder
	var opts []zap.Option
	if development {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		opts = append(opts, zap.Development())
	} else {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
	core := zapcore.NewCore(encoder, w, atom)
	return zap.New(core, opts...), atom, nil
}
