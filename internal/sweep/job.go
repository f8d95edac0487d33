// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package sweep

import (
	"context"
	"sync"
)

// Job is a single-threaded scatter-gather environment. Tasks launched with
// [Gather.Scatter] run in their own goroutines, but their results are handed
// to gather functions only from within [Job.GatherOne], [Job.GatherAll], or a
// blocking Scatter, all of which must be called from the goroutine that owns
// the job. Gather functions may therefore touch local state freely and may
// scatter follow-up tasks.
//
// Each call to NewJob should be followed by a deferred [Job.CancelAndWait].
type Job struct {
	ctx        context.Context
	cancelFunc context.CancelFunc
	inFlight   int
	gatherCh   chan boundGatherFunc
	wg         sync.WaitGroup
}

type boundGatherFunc = func(ctx context.Context) error

// NewJob returns a Job whose tasks run under a context derived from ctx.
func NewJob(ctx context.Context) *Job {
	j := &Job{}
	ctx, j.cancelFunc = context.WithCancel(ctx)
	j.ctx = context.WithValue(ctx, taskContextKey{}, j)
	j.gatherCh = make(chan boundGatherFunc)
	return j
}

type taskContextKey struct{}

// isTaskContext reports whether ctx was passed to a task of this job.
func (j *Job) isTaskContext(ctx context.Context) bool {
	owner, _ := ctx.Value(taskContextKey{}).(*Job)
	return owner == j
}

// Cancel stops in-flight tasks and forfeits their results. It is safe to call
// from any goroutine and more than once.
func (j *Job) Cancel() {
	j.cancelFunc()
}

// CancelAndWait cancels the job and waits for every task goroutine to exit.
func (j *Job) CancelAndWait() {
	j.Cancel()
	j.wg.Wait()
}

// GatherOne blocks until one task result is available and passes it to its
// gather function. It returns false with a nil error when no tasks are in
// flight, and false with the context error when ctx or the job is canceled.
func (j *Job) GatherOne(ctx context.Context) (bool, error) {
	if j.inFlight == 0 {
		return false, nil
	}
	select {
	case gather := <-j.gatherCh:
		return true, j.executeGather(ctx, gather)
	case <-ctx.Done():
		return false, ctx.Err()
	case <-j.ctx.Done():
		return false, j.ctx.Err()
	}
}

// GatherAll gathers until no tasks remain in flight, including tasks
// scattered by gather functions along the way. It stops at the first error.
func (j *Job) GatherAll(ctx context.Context) error {
	for {
		ok, err := j.GatherOne(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

func (j *Job) executeGather(ctx context.Context, gather boundGatherFunc) error {
	// The task stays counted until its gather returns, so GatherAll cannot
	// finish before follow-up tasks are scattered.
	defer func() {
		j.inFlight--
		if j.inFlight < 0 {
			panic("no tasks in flight")
		}
	}()
	return gather(ctx)
}
