package dataflux

import "fmt"

// MaxCompose is the server-side cap on how many source objects a single
// compose call may reference. It mirrors Google Cloud Storage's own
// composite-object limit.
const MaxCompose = 32

// ComposedPrefix is the well-known path under which the engine creates its
// temporary composite objects. Operators may use this prefix to garbage
// collect composites orphaned by a crashed process. Callers must not place
// non-composite data under it.
const ComposedPrefix = "dataflux-composed-objects/"

// ObjectRef identifies one object to retrieve and its authoritative size in
// bytes. Size drives how the planner groups objects and how the decomposer
// slices a composite back apart, so a stale size here produces a length
// mismatch, not a crash (see decompose).
type ObjectRef struct {
	Name string
	Size uint64
}

// ObjectGroup is an ordered, non-empty run of ObjectRefs the planner intends
// to compose into a single server-side object. Order is significant: it is
// the order sources are concatenated in and the order bytes are sliced back
// out.
type ObjectGroup []ObjectRef

// TotalSize returns the sum of the group members' sizes.
func (g ObjectGroup) TotalSize() uint64 {
	var total uint64
	for _, ref := range g {
		total += ref.Size
	}
	return total
}

// ResultVector is the ordered set of downloaded payloads, one per input
// ObjectRef, in input order.
type ResultVector [][]byte

// OptimizationParams tunes the planner's admission decisions. It is kept as
// a struct rather than a bare integer so future knobs (composite hashing,
// per-group parallelism) can be added without touching call signatures.
type OptimizationParams struct {
	// MaxCompositeObjectSize is the running-total threshold for a group: the
	// planner keeps admitting items while the total before the next item is
	// at most this value, so the last admitted item may push the total above
	// it. An item larger than it at the start of a group is fetched on its
	// own. There is no built-in default: callers must size it to their
	// workload.
	MaxCompositeObjectSize uint64

	// GroupConcurrency bounds how many groups/single-fetch tasks the
	// orchestrator runs in flight at once. 0 or 1 means the sequential
	// baseline; values above 1 opt into the concurrent execution described
	// in the concurrency model.
	GroupConcurrency int
}

// Validate rejects parameter combinations the engine cannot make progress
// with and fills in the zero-value default for additive knobs.
func (p *OptimizationParams) Validate() error {
	if p.MaxCompositeObjectSize == 0 {
		return fmt.Errorf("dataflux: MaxCompositeObjectSize must be greater than zero")
	}
	if p.GroupConcurrency <= 0 {
		p.GroupConcurrency = 1
	}
	return nil
}
