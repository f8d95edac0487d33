// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package tsv reads and writes application datasets and generated instances
// as tab-separated text with the header
//
//	app_id	nb_instances	core	memory	inter_degree	inter_aff
//
// Fixed demands are written as integers and time-series demands as bracketed
// lists such as [0.5, 1.0]. The affinity list is written as
// [(2, 0), (7, 1)], one (target, category) pair per edge.
package tsv
