// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Command degreehist renders histograms of the interference out-degrees of
// one or more instance files. The image format follows the extension of
// the output file (svg, png, pdf, ...).
//
//	degreehist [-o degrees.svg] [-bins 20] [-log] FILE...
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/petenewcomb/instgen-go/internal/tsv"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "degreehist:", err)
		}
		os.Exit(2)
	}
}

func run(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("degreehist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("o", "degrees.svg", "output image `file`")
	bins := fs.Int("bins", 20, "number of histogram `bins`")
	logY := fs.Bool("log", false, "logarithmic count axis")
	title := fs.String("title", "Interference out-degree", "chart `title`")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return flag.ErrHelp
	}
	if *bins < 1 {
		return fmt.Errorf("-bins must be positive, got %d", *bins)
	}

	series := make([]degreeSeries, 0, fs.NArg())
	for _, path := range fs.Args() {
		s, err := readDegrees(path)
		if err != nil {
			return err
		}
		series = append(series, s)
	}

	p, err := plotHistograms(&chart{
		Title:      *title,
		XAxisLabel: "out-degree",
		YAxisLabel: "applications",
		LogY:       *logY,
		Bins:       *bins,
	}, series)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(*out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return p.Save(9*vg.Inch, 6*vg.Inch, *out)
}

type degreeSeries struct {
	Label   string
	Degrees plotter.Values
}

func readDegrees(path string) (degreeSeries, error) {
	rows, err := tsv.ReadDatasetFile(path)
	if err != nil {
		return degreeSeries{}, err
	}
	if len(rows) == 0 {
		return degreeSeries{}, fmt.Errorf("%s: no applications", path)
	}
	degrees := make(plotter.Values, len(rows))
	for i := range rows {
		degrees[i] = float64(len(rows[i].Affinities))
	}
	return degreeSeries{
		Label:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Degrees: degrees,
	}, nil
}

type chart struct {
	Title      string
	XAxisLabel string
	YAxisLabel string
	LogY       bool
	Bins       int
}

func setupPlot(c *chart) *plot.Plot {
	p := plot.New()

	p.Title.Text = c.Title
	p.X.Label.Text = c.XAxisLabel
	p.Y.Label.Text = c.YAxisLabel

	gray := color.Gray{128}
	p.Title.TextStyle.Color = gray
	p.X.Color = gray
	p.Y.Color = gray
	p.X.Label.TextStyle.Color = gray
	p.Y.Label.TextStyle.Color = gray
	p.X.Tick.Color = gray
	p.Y.Tick.Color = gray
	p.X.Tick.Label.Color = gray
	p.Y.Tick.Label.Color = gray
	p.Legend.TextStyle.Color = gray

	if c.LogY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{}
	}

	p.Legend.Top = true
	p.Legend.Padding = 1 * vg.Millimeter
	p.BackgroundColor = color.Transparent
	return p
}

func plotHistograms(c *chart, series []degreeSeries) (*plot.Plot, error) {
	p := setupPlot(c)

	// Paired palettes start at three colors.
	palette, err := brewer.GetPalette(brewer.TypeQualitative, "Paired", max(3, len(series)))
	if err != nil {
		return nil, err
	}
	colors := palette.Colors()

	for i, s := range series {
		h, err := plotter.NewHist(s.Degrees, c.Bins)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Label, err)
		}
		if c.LogY {
			// Empty bins cannot be drawn on a log axis.
			for j := range h.Bins {
				h.Bins[j].Weight = max(h.Bins[j].Weight, 0.5)
			}
			h.LogY = true
		}
		fill := colors[i%len(colors)]
		if len(series) > 1 {
			r, g, b, _ := fill.RGBA()
			fill = color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 160}
		}
		h.FillColor = fill
		h.LineStyle.Width = 0
		p.Add(h)
		p.Legend.Add(s.Label, h)
	}
	return p, nil
}
