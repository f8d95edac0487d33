// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package sweep

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"runtime"
	"slices"

	"github.com/petenewcomb/instgen-go"
	"github.com/petenewcomb/instgen-go/internal/cerr"
	"gopkg.in/yaml.v3"
)

// Density is a target density together with the label used in file names.
// In YAML it is either a bare number or a {value, label} mapping.
type Density struct {
	Value float64 `yaml:"value"`
	Label string  `yaml:"label,omitempty"`
}

func (d *Density) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*d = Density{}
		return node.Decode(&d.Value)
	}
	type plain Density
	return node.Decode((*plain)(d))
}

// Config describes a sweep over scales, replicates, densities, and graph
// kinds.
type Config struct {
	// Dataset is the base dataset file. Only the command-line tool reads it.
	Dataset string `yaml:"dataset"`
	// Output is the directory instance files are written to.
	Output    string         `yaml:"output"`
	Kinds     []instgen.Kind `yaml:"kinds"`
	Densities []Density      `yaml:"densities"`
	// Replicates is the number of instances per (scale, density, kind).
	Replicates int `yaml:"replicates"`
	// Scales lists application counts to resample the dataset to. When
	// empty the dataset is used as is.
	Scales []int  `yaml:"scales"`
	Naming Naming `yaml:"naming"`
	// Workers bounds concurrently running tasks. Each running instance task
	// holds its graph, its affinity lists, and for the arbitrary kind a pair
	// bitmap, which together reach gigabytes at 1e5 applications and 1%
	// density. Zero means one per CPU, capped at [LargeScaleWorkers] when any
	// scale reaches [LargeScale].
	Workers int `yaml:"workers"`
	// MaxTables bounds how many base tables are held in memory at once;
	// zero means two.
	MaxTables int    `yaml:"max_tables"`
	Seed      uint64 `yaml:"seed"`
}

// Default worker cap for sweeps whose instances are large enough for memory,
// rather than CPU, to be the limit.
const (
	LargeScale        = 50_000
	LargeScaleWorkers = 2
)

var presets = map[string]func() Config{
	"density": func() Config {
		return Config{
			Kinds: slices.Clone(instgen.Kinds),
			Densities: []Density{
				{Value: 0.01, Label: "1"},
				{Value: 0.05, Label: "5"},
				{Value: 0.10, Label: "10"},
			},
			Replicates: 10,
			Naming:     NamingDensity,
		}
	},
	"large": func() Config {
		return Config{
			Kinds: slices.Clone(instgen.Kinds),
			Densities: []Density{
				{Value: 0.01, Label: "01"},
				{Value: 0.005, Label: "005"},
			},
			Replicates: 10,
			Scales:     []int{10000, 50000, 100000},
			Naming:     NamingLarge,
		}
	},
	"scalability": func() Config {
		scales := make([]int, 10)
		for i := range scales {
			scales[i] = 10000 * (i + 1)
		}
		return Config{
			Kinds:      slices.Clone(instgen.Kinds),
			Densities:  []Density{{Value: 0.005, Label: "005"}},
			Replicates: 1,
			Scales:     scales,
			Naming:     NamingScalability,
		}
	},
}

// PresetNames lists the built-in presets in sorted order.
func PresetNames() []string {
	return slices.Sorted(maps.Keys(presets))
}

// Preset returns a copy of the named built-in configuration.
func Preset(name string) (Config, error) {
	preset, ok := presets[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: unknown preset %q", cerr.InvalidParameter, name)
	}
	return preset(), nil
}

// LoadConfig decodes a YAML configuration. A top-level "preset" key selects
// a built-in configuration that the remaining keys override.
func LoadConfig(r io.Reader) (Config, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("%w: empty configuration", cerr.InvalidParameter)
		}
		return Config{}, err
	}
	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := node.Decode(&head); err != nil {
		return Config{}, err
	}
	var file struct {
		Preset string `yaml:"preset"`
		Config `yaml:",inline"`
	}
	if head.Preset != "" {
		cfg, err := Preset(head.Preset)
		if err != nil {
			return Config{}, err
		}
		file.Config = cfg
	}
	if err := node.Decode(&file); err != nil {
		return Config{}, err
	}
	return file.Config, nil
}

// LoadConfigFile is [LoadConfig] on the named file.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	cfg, err := LoadConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return cfg, nil
}

// Normalize fills in defaults and checks the configuration. Failures wrap
// [cerr.InvalidParameter].
func (c *Config) Normalize() error {
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
		if slices.ContainsFunc(c.Scales, func(n int) bool { return n >= LargeScale }) {
			c.Workers = min(c.Workers, LargeScaleWorkers)
		}
	}
	if c.MaxTables == 0 {
		c.MaxTables = 2
	}
	c.Densities = slices.Clone(c.Densities)
	for i := range c.Densities {
		if c.Densities[i].Label == "" {
			c.Densities[i].Label = c.Naming.Label(c.Densities[i].Value)
		}
	}

	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", cerr.InvalidParameter, fmt.Sprintf(format, args...))
	}
	switch {
	case c.Output == "":
		return invalid("no output directory")
	case len(c.Kinds) == 0:
		return invalid("no graph kinds")
	case len(c.Densities) == 0:
		return invalid("no densities")
	case c.Replicates < 1:
		return invalid("%d replicates", c.Replicates)
	case c.Workers < 0:
		return invalid("%d workers", c.Workers)
	case c.MaxTables < 0:
		return invalid("max_tables is %d", c.MaxTables)
	}
	if _, err := c.Naming.MarshalText(); err != nil {
		return err
	}
	for i, k := range c.Kinds {
		if _, err := k.MarshalText(); err != nil {
			return err
		}
		if slices.Contains(c.Kinds[:i], k) {
			return invalid("graph kind %v listed twice", k)
		}
	}
	for _, d := range c.Densities {
		if math.IsNaN(d.Value) || d.Value < 0 || d.Value > 1 {
			return invalid("density %v outside [0, 1]", d.Value)
		}
	}
	for _, n := range c.Scales {
		if n < 2 {
			return invalid("scale %d below 2", n)
		}
	}
	return nil
}
