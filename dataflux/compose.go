package dataflux

import "context"

// compose creates a composite object at bucket/destName whose bytes are the
// ordered concatenation of group's members, via the adapter. The
// too-many-sources precondition is checked here, synchronously, before any
// server call, so a caller never pays for a doomed request.
func compose(ctx context.Context, adapter Adapter, bucket, destName string, group ObjectGroup) (CompositeHandle, error) {
	if len(group) == 0 {
		return CompositeHandle{}, nil
	}
	if len(group) > MaxCompose {
		return CompositeHandle{}, tooManySourcesError(len(group))
	}

	sources := make([]string, len(group))
	for i, ref := range group {
		sources[i] = ref.Name
	}

	return adapter.Compose(ctx, bucket, destName, sources)
}
