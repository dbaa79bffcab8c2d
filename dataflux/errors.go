package dataflux

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying what the adapter boundary saw. The planner and
// decomposer propagate them unchanged, so callers can branch on them via
// errors.Is instead of inspecting the underlying storage-package error types
// directly.
var (
	// ErrNotFound indicates the adapter could not find a named object.
	// Surfaced to the caller: it usually means the input listing is stale.
	ErrNotFound = errors.New("dataflux: object not found")

	// ErrTransient classifies every adapter failure other than not-found,
	// including a retryable error whose retry policy was exhausted. Errors
	// that no retry can cure (e.g. permission denied) are not told apart
	// from retryable ones and also carry this kind. Surfaced to the caller;
	// partial results from the failing group are discarded.
	ErrTransient = errors.New("dataflux: transient adapter error")

	// ErrInvalidArgument indicates a precondition the engine checks itself,
	// before any server call (e.g. a group larger than MaxCompose).
	ErrInvalidArgument = errors.New("dataflux: invalid argument")
)

// Error wraps an underlying error with the operation and object identity it
// occurred against, in the style of the corpus's own storage error wrappers.
// It supports errors.Is/errors.As via Unwrap.
type Error struct {
	Op     string
	Bucket string
	Name   string
	Err    error
}

func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("dataflux: %s %s/%s: %v", e.Op, e.Bucket, e.Name, e.Err)
	}
	return fmt.Sprintf("dataflux: %s %s: %v", e.Op, e.Bucket, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func newError(op, bucket, name string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Bucket: bucket, Name: name, Err: err}
}

// tooManySourcesError reports that a composer call was given more sources than
// MaxCompose allows. It wraps ErrInvalidArgument.
func tooManySourcesError(n int) error {
	return fmt.Errorf("%w: %d objects allowed to compose, received %d", ErrInvalidArgument, MaxCompose, n)
}
