package dataflux

import "context"

// decompose downloads the composite at bucket/compositeName and slices its
// bytes back into per-source payloads using group's size vector, in order.
//
// A length mismatch between the downloaded buffer and the sum of group
// sizes does not fail the call: the adapter's download succeeded, and the
// mismatch almost always means one ObjectRef carried stale size metadata
// rather than that the bytes themselves are wrong. The mismatch is logged as
// an error (mandatory per the observability contract) and the computed
// slices, clamped to the buffer's actual length, are returned anyway —
// slices up to the first divergence are still usable, and a caller who
// fails the whole group loses those too.
func decompose(ctx context.Context, adapter Adapter, logger Logger, bucket, compositeName string, group ObjectGroup) ([][]byte, error) {
	buf, err := fetch(ctx, adapter, bucket, compositeName)
	if err != nil {
		return nil, err
	}

	out := make([][]byte, 0, len(group))
	start := 0
	for _, ref := range group {
		from := min(start, len(buf))
		to := min(start+int(ref.Size), len(buf))
		out = append(out, buf[from:to])
		start += int(ref.Size)
	}

	if start != len(buf) {
		logger.Printf("[ERROR] decompose %s: length mismatch got=%d want=%d", compositeName, start, len(buf))
	}

	return out, nil
}
