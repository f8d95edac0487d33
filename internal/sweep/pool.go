// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package sweep

// A Pool limits how many tasks of a [Job] run at once. A limit of zero or
// less means no limit.
type Pool struct {
	job      *Job
	limit    int
	inFlight int
}

// NewPool returns a pool running at most limit tasks of job at once.
func NewPool(job *Job, limit int) *Pool {
	if job == nil {
		panic("job must be non-nil")
	}
	return &Pool{
		job:   job,
		limit: limit,
	}
}

func (p *Pool) full() bool {
	return p.limit > 0 && p.inFlight >= p.limit
}
