package dataflux

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
)

// Adapter is the capability surface the engine needs from an object store:
// full-object download, server-side composition of an ordered source list,
// and idempotent delete. Any implementation satisfying this interface can
// back the engine, which is what makes it substitutable with a deterministic
// test fake.
type Adapter interface {
	Download(ctx context.Context, bucket, name string) ([]byte, error)
	Compose(ctx context.Context, bucket, destName string, sources []string) (CompositeHandle, error)
	Delete(ctx context.Context, bucket, name string) error
}

// CompositeHandle identifies a server-side composite object the engine
// created. It is the only durable side effect the engine produces; every
// handle returned by Compose must eventually be passed to Delete.
type CompositeHandle struct {
	Bucket string
	Name   string
}

// RetryPolicy mirrors the retry knobs Google Cloud Storage's own client
// exposes: a total deadline per operation, and an exponential backoff
// described by an initial delay, a multiplier, and a cap. The zero value is
// not usable; construct one with DefaultRetryPolicy.
type RetryPolicy struct {
	Deadline     time.Duration
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
}

// DefaultRetryPolicy returns the policy this engine applies uniformly to
// download, compose, and delete: a 300s deadline, 1.0s initial backoff, 1.2x
// multiplier, capped at 45s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Deadline:     300 * time.Second,
		InitialDelay: 1 * time.Second,
		Multiplier:   1.2,
		MaxDelay:     45 * time.Second,
	}
}

func (p RetryPolicy) backoff() gax.Backoff {
	return gax.Backoff{
		Initial:    p.InitialDelay,
		Max:        p.MaxDelay,
		Multiplier: p.Multiplier,
	}
}

// gcsAdapter is the production Adapter, backed by cloud.google.com/go/storage.
// Every handle it hands out for a mutating or reading call carries the
// configured retry policy, the way the corpus's own GCS wrappers attach
// storage.WithPolicy to handles before using them.
type gcsAdapter struct {
	client *storage.Client
	retry  RetryPolicy
}

// NewGCSAdapter wraps an existing *storage.Client. Use this when the caller
// already holds a client (shared connection pool, custom credentials).
func NewGCSAdapter(client *storage.Client, retry RetryPolicy) Adapter {
	return &gcsAdapter{client: client, retry: retry}
}

// NewGCSAdapterForProject lazily constructs a *storage.Client with the
// given client options forwarded (e.g. option.WithGRPCConnectionPool) and
// wraps it as an Adapter. Object operations do not require a project, so
// project is diagnostic-only here: it identifies the caller's intent in
// error messages. Callers needing quota attribution should pass
// option.WithQuotaProject explicitly.
func NewGCSAdapterForProject(ctx context.Context, project string, retry RetryPolicy, opts ...option.ClientOption) (Adapter, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("dataflux: failed to construct storage client for project %s: %w", project, err)
	}
	return &gcsAdapter{client: client, retry: retry}, nil
}

func (a *gcsAdapter) withRetry(h *storage.ObjectHandle) *storage.ObjectHandle {
	return h.Retryer(
		storage.WithBackoff(a.retry.backoff()),
		storage.WithPolicy(storage.RetryIdempotent),
	)
}

func (a *gcsAdapter) Download(ctx context.Context, bucket, name string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, a.retry.Deadline)
	defer cancel()

	obj := a.withRetry(a.client.Bucket(bucket).Object(name))

	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, newError("download", bucket, name, classifyErr(err))
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, newError("download", bucket, name, classifyErr(err))
	}
	return data, nil
}

func (a *gcsAdapter) Compose(ctx context.Context, bucket, destName string, sources []string) (CompositeHandle, error) {
	if len(sources) > MaxCompose {
		return CompositeHandle{}, tooManySourcesError(len(sources))
	}
	if len(sources) == 0 {
		return CompositeHandle{}, fmt.Errorf("%w: compose requires at least one source", ErrInvalidArgument)
	}

	ctx, cancel := context.WithTimeout(ctx, a.retry.Deadline)
	defer cancel()

	bkt := a.client.Bucket(bucket)

	handles := make([]*storage.ObjectHandle, len(sources))
	for i, name := range sources {
		handles[i] = bkt.Object(name)
	}

	dst := a.withRetry(bkt.Object(destName))

	if _, err := dst.ComposerFrom(handles...).Run(ctx); err != nil {
		return CompositeHandle{}, newError("compose", bucket, destName, classifyErr(err))
	}

	return CompositeHandle{Bucket: bucket, Name: destName}, nil
}

func (a *gcsAdapter) Delete(ctx context.Context, bucket, name string) error {
	ctx, cancel := context.WithTimeout(ctx, a.retry.Deadline)
	defer cancel()

	obj := a.withRetry(a.client.Bucket(bucket).Object(name))

	if err := obj.Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return newError("delete", bucket, name, classifyErr(err))
	}
	return nil
}

// classifyErr maps a raw GCS SDK error onto the engine's own sentinel
// taxonomy so the planner and decomposer never need to import the storage
// package themselves.
func classifyErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return fmt.Errorf("%w: %v", ErrTransient, err)
}
