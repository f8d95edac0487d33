// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package sweep

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/petenewcomb/instgen-go/internal/cerr"
)

// Naming selects how output files are named and how density labels are
// derived.
type Naming int

const (
	// NamingDensity names files <kind>_d<label>_<replicate>.csv, with labels
	// in whole percent ("1", "5", "10").
	NamingDensity Naming = iota
	// NamingLarge names files
	// large_scale_<n>_<kind>_d<label>_<replicate>.csv, with labels made of
	// the digits after "0." ("01" for 0.01, "005" for 0.005).
	NamingLarge
	// NamingScalability names files scalability_<n>_<kind>_d<label>.csv,
	// labeled like NamingLarge. Replicates are not distinguished.
	NamingScalability
)

var namingNames = [...]string{
	NamingDensity:     "density",
	NamingLarge:       "large",
	NamingScalability: "scalability",
}

func (n Naming) String() string {
	if n < 0 || int(n) >= len(namingNames) {
		return fmt.Sprintf("Naming(%d)", int(n))
	}
	return namingNames[n]
}

func (n Naming) MarshalText() ([]byte, error) {
	if n < 0 || int(n) >= len(namingNames) {
		return nil, fmt.Errorf("%w: unknown naming scheme %d", cerr.InvalidParameter, int(n))
	}
	return []byte(namingNames[n]), nil
}

func (n *Naming) UnmarshalText(text []byte) error {
	for i, name := range namingNames {
		if strings.EqualFold(string(text), name) {
			*n = Naming(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown naming scheme %q", cerr.InvalidParameter, text)
}

// Label returns the default file label for density.
func (n Naming) Label(density float64) string {
	if n == NamingDensity {
		return strings.Replace(formatDecimal(density*100), ".", "", 1)
	}
	s := formatDecimal(density)
	if rest, ok := strings.CutPrefix(s, "0."); ok {
		return rest
	}
	return strings.Replace(s, ".", "", 1)
}

// formatDecimal drops the representation noise of products like 0.07*100.
func formatDecimal(x float64) string {
	return strconv.FormatFloat(math.Round(x*1e10)/1e10, 'f', -1, 64)
}

// FileName returns the output file name for c.
func (n Naming) FileName(c *Cell) string {
	switch n {
	case NamingDensity:
		return fmt.Sprintf("%s_d%s_%d.csv", c.Kind, c.Density.Label, c.Replicate)
	case NamingLarge:
		return fmt.Sprintf("large_scale_%d_%s_d%s_%d.csv", c.Scale, c.Kind, c.Density.Label, c.Replicate)
	case NamingScalability:
		return fmt.Sprintf("scalability_%d_%s_d%s.csv", c.Scale, c.Kind, c.Density.Label)
	default:
		panic(fmt.Sprintf("unknown naming scheme %d", int(n)))
	}
}
