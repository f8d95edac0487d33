// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package sweep

import (
	"fmt"

	"github.com/markphelps/optional"
	"github.com/petenewcomb/instgen-go"
	"github.com/petenewcomb/instgen-go/internal/cerr"
	"github.com/petenewcomb/instgen-go/variate"
)

// A Group is one base table and the instances generated from it.
type Group struct {
	Index int
	// Scale is the resampled table size, absent when the dataset is used
	// as is.
	Scale     optional.Int
	Replicate int
	Seed      uint64
	Cells     []*Cell
}

// A Cell is one instance to generate.
type Cell struct {
	// Index is the cell's position in plan order.
	Index     int
	Group     *Group
	Kind      instgen.Kind
	Density   Density
	Scale     int
	Replicate int
	Seed      uint64
	// Name is the output file name.
	Name string
}

// Plan expands a normalized configuration into groups. Groups are ordered by
// scale then replicate, and cells within a group by density then kind.
// datasetSize stands in for the scale when no scales are configured.
//
// Seeds are drawn in plan order from a sampler seeded with c.Seed, so a
// configuration always yields the same instances regardless of how many
// workers run it.
func (c *Config) Plan(datasetSize int) ([]*Group, error) {
	scales := make([]optional.Int, 0, max(1, len(c.Scales)))
	for _, n := range c.Scales {
		scales = append(scales, optional.NewInt(n))
	}
	if len(scales) == 0 {
		scales = append(scales, optional.Int{})
	}

	seeds := variate.NewSeeded(c.Seed)
	names := make(map[string]bool)
	var groups []*Group
	var index int
	for _, scale := range scales {
		for rep := range c.Replicates {
			g := &Group{
				Index:     len(groups),
				Scale:     scale,
				Replicate: rep,
				Seed:      seeds.Uint64(),
			}
			for _, d := range c.Densities {
				for _, k := range c.Kinds {
					cell := &Cell{
						Index:     index,
						Group:     g,
						Kind:      k,
						Density:   d,
						Scale:     scale.OrElse(datasetSize),
						Replicate: rep,
						Seed:      seeds.Uint64(),
					}
					cell.Name = c.Naming.FileName(cell)
					if names[cell.Name] {
						return nil, fmt.Errorf("%w: naming scheme %v writes %s more than once",
							cerr.InvalidParameter, c.Naming, cell.Name)
					}
					names[cell.Name] = true
					g.Cells = append(g.Cells, cell)
					index++
				}
			}
			groups = append(groups, g)
		}
	}
	return groups, nil
}
