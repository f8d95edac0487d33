// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package tsv

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/petenewcomb/instgen-go/affinity"
)

// Column names, in file order.
const (
	ColID        = "app_id"
	ColReplicas  = "nb_instances"
	ColCore      = "core"
	ColMemory    = "memory"
	ColDegree    = "inter_degree"
	ColAffinity  = "inter_aff"
	listSep      = ", "
	listOpen     = "["
	listClose    = "]"
	pairOpen     = "("
	pairClose    = ")"
	naturalFloat = 1e16
)

// Header is the column layout written by [Writer].
var Header = []string{ColID, ColReplicas, ColCore, ColMemory, ColDegree, ColAffinity}

// formatFloat renders f the way the datasets were originally produced:
// shortest round-trip digits, always with a decimal point or exponent.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= naturalFloat) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatSeries(series []float64) string {
	var b strings.Builder
	b.WriteString(listOpen)
	for i, x := range series {
		if i > 0 {
			b.WriteString(listSep)
		}
		b.WriteString(formatFloat(x))
	}
	b.WriteString(listClose)
	return b.String()
}

func formatAffinities(pairs []affinity.Pair) string {
	var b strings.Builder
	b.WriteString(listOpen)
	for i, p := range pairs {
		if i > 0 {
			b.WriteString(listSep)
		}
		fmt.Fprintf(&b, "%s%d%s%d%s", pairOpen, p.Target, listSep, p.Category, pairClose)
	}
	b.WriteString(listClose)
	return b.String()
}

func isList(field string) bool {
	return strings.HasPrefix(strings.TrimSpace(field), listOpen)
}

// listItems strips the brackets from a list field and splits it on commas.
func listItems(field string) ([]string, error) {
	field = strings.TrimSpace(field)
	if !strings.HasPrefix(field, listOpen) || !strings.HasSuffix(field, listClose) {
		return nil, fmt.Errorf("%q is not a bracketed list", field)
	}
	inner := strings.TrimSpace(field[len(listOpen) : len(field)-len(listClose)])
	if inner == "" {
		return nil, nil
	}
	items := strings.Split(inner, ",")
	for i := range items {
		items[i] = strings.TrimSpace(items[i])
	}
	return items, nil
}

func parseSeries(field string) ([]float64, error) {
	items, err := listItems(field)
	if err != nil {
		return nil, err
	}
	series := make([]float64, len(items))
	for i, item := range items {
		series[i], err = strconv.ParseFloat(item, 64)
		if err != nil {
			return nil, err
		}
	}
	return series, nil
}

func parseAffinities(field string) ([]affinity.Pair, error) {
	if strings.TrimSpace(field) == "" {
		return nil, nil
	}
	items, err := listItems(field)
	if err != nil {
		return nil, err
	}
	if len(items)%2 != 0 {
		return nil, fmt.Errorf("odd number of values in affinity list %q", field)
	}
	pairs := make([]affinity.Pair, 0, len(items)/2)
	for i := 0; i < len(items); i += 2 {
		target, err := strconv.Atoi(strings.TrimPrefix(items[i], pairOpen))
		if err != nil {
			return nil, fmt.Errorf("affinity target: %w", err)
		}
		category, err := strconv.Atoi(strings.TrimSuffix(items[i+1], pairClose))
		if err != nil {
			return nil, fmt.Errorf("affinity category: %w", err)
		}
		pairs = append(pairs, affinity.Pair{Target: target, Category: category})
	}
	return pairs, nil
}

// parseInt accepts integers that pandas may have widened to floats, such as
// "12.0".
func parseInt(field string) (int, error) {
	field = strings.TrimSpace(field)
	if n, err := strconv.Atoi(field); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("%q is not an integer", field)
	}
	return int(f), nil
}
