// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package cerr holds the constant error type shared by every package of the
// module, along with the two classes of failure a generation call can report.
package cerr

type Error string

func (e Error) Error() string {
	return string(e)
}

// InvalidParameter is reported before any sampling happens when a density,
// node count, weight vector, or base table cannot be used.
const InvalidParameter = Error("invalid parameter")

// ConsistencyFailure is reported when generated structures disagree with the
// base table they are joined onto. It indicates a bug, not bad input.
const ConsistencyFailure = Error("consistency failure")
