// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Command instgen generates interference-aware placement instances.
//
// Usage:
//
//	instgen extract  -trace-dir DIR -out DIR
//	instgen generate -dataset FILE -kind KIND -density D [-scale N] [-seed S] [-o FILE]
//	instgen sweep    [-config FILE | -preset NAME] [-dataset FILE] [-output DIR] ...
//
// Every subcommand accepts -log-level and -dev to control logging.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/petenewcomb/instgen-go/internal/telemetry"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, env *env, args []string) error
}

var commands = []command{
	{"extract", "build the base datasets from raw trace files", runExtract},
	{"generate", "generate a single instance", runGenerate},
	{"sweep", "generate a configured set of instances", runSweep},
}

// env carries the process streams so that tests can capture them.
type env struct {
	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "instgen:", err)
		}
		os.Exit(2)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: instgen <command> [flags]")
	fmt.Fprintln(w)
	for _, c := range commands {
		fmt.Fprintf(w, "  %-9s %s\n", c.name, c.summary)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stderr)
		return flag.ErrHelp
	}
	for _, c := range commands {
		if c.name == args[0] {
			return c.run(ctx, &env{stdout: stdout, stderr: stderr}, args[1:])
		}
	}
	usage(stderr)
	return fmt.Errorf("unknown command %q", args[0])
}

// newFlagSet returns a flag set carrying the logging flags shared by all
// commands. The returned function must be called after parsing.
func (e *env) newFlagSet(name string) (*flag.FlagSet, func() error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	level := fs.String("log-level", "info", "minimum log `level` (debug, info, warn, error)")
	dev := fs.Bool("dev", false, "human-readable console logs")
	return fs, func() error {
		logger, _, err := telemetry.NewLogger(strings.ToLower(*level), *dev, zapcore.AddSync(e.stderr))
		if err != nil {
			return fmt.Errorf("-log-level: %w", err)
		}
		e.logger = logger
		return nil
	}
}

func (e *env) sync() {
	if e.logger != nil {
		_ = e.logger.Sync()
	}
}
