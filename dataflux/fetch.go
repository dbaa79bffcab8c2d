package dataflux

import "context"

// fetch downloads a single named object's full contents through the
// adapter. It has no side effects beyond the adapter's own retry-bounded
// network I/O.
func fetch(ctx context.Context, adapter Adapter, bucket, name string) ([]byte, error) {
	return adapter.Download(ctx, bucket, name)
}
