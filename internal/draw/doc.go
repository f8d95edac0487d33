// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package draw provides rapid generators for the property tests of the
// generation packages: node counts, densities, seeded samplers, graphs, and
// base tables.
package draw
