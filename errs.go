// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package instgen

import "github.com/petenewcomb/instgen-go/internal/cerr"

// ErrInvalidParameter reports a density outside [0,1], fewer than two
// applications, or a degenerate base table. It is raised before any sampling.
const ErrInvalidParameter = cerr.InvalidParameter

// ErrConsistency reports a mismatch between a generated graph and the base
// table it is joined onto.
const ErrConsistency = cerr.ConsistencyFailure
