// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package instgen

import (
	"fmt"
	"strings"

	"github.com/petenewcomb/instgen-go/graph"
	"github.com/petenewcomb/instgen-go/internal/cerr"
)

// Kind selects a graph generator.
type Kind int

const (
	// Arbitrary places exactly floor(d·n·(n−1)) uniformly random edges.
	Arbitrary Kind = iota
	// Normal draws each node's out-degree from a clipped normal distribution.
	Normal
	// Threshold connects nodes whose latent scores fall under a calibrated
	// threshold.
	Threshold
)

// Kinds lists every generator kind in declaration order.
var Kinds = []Kind{Arbitrary, Normal, Threshold}

var kindNames = [...]string{
	Arbitrary: "arbitrary",
	Normal:    "normal",
	Threshold: "threshold",
}

var kindFuncs = [...]graph.GenerateFunc{
	Arbitrary: graph.Arbitrary,
	Normal:    graph.NormalDegree,
	Threshold: graph.Threshold,
}

func (k Kind) valid() bool {
	return k >= 0 && int(k) < len(kindNames)
}

func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// GenerateFunc returns the graph generator for k.
func (k Kind) GenerateFunc() graph.GenerateFunc {
	if !k.valid() {
		panic(fmt.Sprintf("unknown graph kind %d", int(k)))
	}
	return kindFuncs[k]
}

// ParseKind maps a kind name, case-insensitively, to its Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown graph kind %q", cerr.InvalidParameter, s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.valid() {
		return nil, fmt.Errorf("%w: unknown graph kind %d", cerr.InvalidParameter, int(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
