package dataflux

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// runConcurrent executes tasks with at most concurrency running at once, via an errgroup the way the corpus bounds parallel chunk
// uploads. Semantics match runSequential exactly when concurrency is 1:
// same ResultVector, same all-or-nothing error behavior — the first task
// error cancels the group's context, the remaining tasks' writes are
// discarded, and that first error is the one returned.
func runConcurrent(ctx context.Context, e *Engine, bucket string, tasks []task, outLen int, concurrency int) (ResultVector, error) {
	if concurrency <= 1 || len(tasks) <= 1 {
		return runSequential(ctx, e, bucket, tasks, outLen)
	}

	result := make(ResultVector, outLen)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, t := range tasks {
		t := t
		g.Go(func() error {
			return e.runTask(gctx, bucket, t, result)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
