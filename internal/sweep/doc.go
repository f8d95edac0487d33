// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package sweep generates families of instances over a grid of scales,
// replicates, densities, and graph kinds, writing one file per instance.
//
// A sweep is run as a single-threaded scatter-gather [Job]. Preparing a base
// table is one task; its gather function scatters one task per instance
// drawn from that table. Gathering stays on the caller's goroutine, so the
// bookkeeping that orders results and bounds the number of live base tables
// needs no locking.
package sweep
