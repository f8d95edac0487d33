// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package sweep

import (
	"context"
)

// A TaskFunc runs in its own goroutine and must be thread-safe. It must not
// scatter; follow-up work belongs in the matching [GatherFunc].
type TaskFunc[T any] = func(context.Context) (T, error)

// A GatherFunc receives a task's result on the job's goroutine. A non-nil
// return aborts the gathering call that invoked it.
type GatherFunc[T any] = func(context.Context, T, error) error

// Gather binds a gather function to the tasks scattered through it.
type Gather[T any] struct {
	gatherFunc GatherFunc[T]
}

// NewGather returns a Gather that hands task results to gatherFunc.
func NewGather[T any](gatherFunc GatherFunc[T]) *Gather[T] {
	if gatherFunc == nil {
		panic("gather function must be non-nil")
	}
	return &Gather[T]{gatherFunc: gatherFunc}
}

// Scatter launches taskFunc in pool. While the pool is full it gathers
// completed tasks to make room, so it may run other gather functions before
// returning. The task receives the job's context, not ctx.
func (g *Gather[T]) Scatter(ctx context.Context, pool *Pool, taskFunc TaskFunc[T]) error {
	if taskFunc == nil {
		panic("task function must be non-nil")
	}
	j := pool.job
	if j.isTaskContext(ctx) {
		panic("Scatter called from within TaskFunc; move call to GatherFunc instead")
	}
	for pool.full() {
		if _, err := j.GatherOne(ctx); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := j.ctx.Err(); err != nil {
		return err
	}

	pool.inFlight++
	j.inFlight++
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		value, err := taskFunc(j.ctx)
		gather := func(ctx context.Context) error {
			// Free the slot first so the gather function can scatter into
			// the same pool.
			pool.inFlight--
			return g.gatherFunc(ctx, value, err)
		}
		select {
		case j.gatherCh <- gather:
		case <-j.ctx.Done():
		}
	}()
	return nil
}
