package dataflux

import "context"

// task is one unit of planned work: either a single fetch or a multi-object
// composite group. resultIndex marks where its output(s) land in the final
// ResultVector, so execution order never has to match planning order.
type task struct {
	resultIndex int
	single      *ObjectRef
	group       ObjectGroup
}

// plan partitions inputs into an ordered sequence of tasks:
//
//   - an item whose size exceeds the cap always takes the oversized-item
//     fast path: fetched singly, never placed in a group;
//   - otherwise items are admitted into a running group while the
//     accumulated size *before* adding the next item is still within the
//     cap and the group has fewer than MaxCompose members — this is the
//     "one-overshoot" predicate: the item that closes a group may itself
//     push the total strictly above the cap, on purpose, to guarantee
//     forward progress;
//   - a group of exactly one item degrades to a single fetch rather than a
//     pointless one-source compose.
//
// plan never calls the adapter: it is pure, so it is unaffected by any
// concurrency applied to executing its output, and running it twice on the
// same input and params yields identical task boundaries.
func plan(inputs []ObjectRef, params OptimizationParams) []task {
	tasks := make([]task, 0, len(inputs))
	resultIndex := 0

	i := 0
	for i < len(inputs) {
		if inputs[i].Size > params.MaxCompositeObjectSize {
			ref := inputs[i]
			tasks = append(tasks, task{resultIndex: resultIndex, single: &ref})
			resultIndex++
			i++
			continue
		}

		var group ObjectGroup
		var total uint64
		for i < len(inputs) && total <= params.MaxCompositeObjectSize && len(group) < MaxCompose {
			total += inputs[i].Size
			group = append(group, inputs[i])
			i++
		}

		if len(group) == 1 {
			ref := group[0]
			tasks = append(tasks, task{resultIndex: resultIndex, single: &ref})
		} else {
			tasks = append(tasks, task{resultIndex: resultIndex, group: group})
		}
		resultIndex += len(group)
	}

	return tasks
}

// runSequential executes the tasks produced by plan one at a time — compose,
// decompose, best-effort delete for groups; adapter.Download for singles —
// assembling the ordered ResultVector. It is the correctness baseline;
// runConcurrent in concurrency.go executes the same task list with bounded
// parallelism when the effective concurrency is above 1.
func runSequential(ctx context.Context, e *Engine, bucket string, tasks []task, outLen int) (ResultVector, error) {
	result := make(ResultVector, outLen)

	for _, t := range tasks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := e.runTask(ctx, bucket, t, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// runTask executes one planned task and writes its output(s) into result at
// t.resultIndex.
func (e *Engine) runTask(ctx context.Context, bucket string, t task, result ResultVector) error {
	if t.single != nil {
		data, err := fetch(ctx, e.adapter, bucket, t.single.Name)
		if err != nil {
			return err
		}
		result[t.resultIndex] = data
		return nil
	}

	return e.runGroup(ctx, bucket, t.group, result, t.resultIndex)
}

// runGroup drives the compose -> decompose -> best-effort-delete sequence
// for a multi-object group. A failure to compose leaves no composite to
// clean up and propagates directly. A failure after compose (download or
// split) still attempts delete before propagating, per the state machine:
// PLANNED -> COMPOSED -> DOWNLOADED -> SPLIT -> DELETED(best-effort).
func (e *Engine) runGroup(ctx context.Context, bucket string, group ObjectGroup, result ResultVector, at int) error {
	destName := ComposedPrefix + e.newCompositeName()
	e.logger.Printf("[DEBUG] group opened: %d members, composite=%s", len(group), destName)

	handle, err := compose(ctx, e.adapter, bucket, destName, group)
	if err != nil {
		return err
	}
	e.logger.Printf("[DEBUG] group composed: composite=%s", handle.Name)

	slices, err := decompose(ctx, e.adapter, e.logger, bucket, handle.Name, group)

	// The delete must be attempted on every exit path once the composite
	// exists, including after caller cancellation, so it runs detached from
	// the request context's cancellation (the retry deadline inside the
	// adapter still bounds it).
	deleteErr := e.adapter.Delete(context.WithoutCancel(ctx), handle.Bucket, handle.Name)
	if deleteErr != nil {
		e.logger.Printf("[ERROR] delete composite %s failed: %v", handle.Name, deleteErr)
	} else {
		e.logger.Printf("[DEBUG] group cleaned up: composite=%s", handle.Name)
	}

	if err != nil {
		return err
	}

	for j, payload := range slices {
		result[at+j] = payload
	}
	return nil
}
