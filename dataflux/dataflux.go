package dataflux

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// Engine holds the adapter and logger a Download call is bound to. Build
// one with New, or call the package-level Download helper for the common
// case of a single call against a freshly constructed client.
type Engine struct {
	adapter     Adapter
	logger      Logger
	concurrency int
	clientOpts  []option.ClientOption
	retryPolicy RetryPolicy
	retrySet    bool
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithAdapter overrides the Engine's Adapter, e.g. to inject a test fake.
func WithAdapter(adapter Adapter) Option {
	return func(e *Engine) { e.adapter = adapter }
}

// WithLogger overrides the Engine's Logger. The default logs through the
// standard library's log package, matching the bracketed [DEBUG]/[ERROR]
// style used throughout this package.
func WithLogger(logger Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithConcurrency overrides OptimizationParams.GroupConcurrency for every
// Run call made through this Engine. Useful when the concurrency a caller
// wants to apply is a deployment concern rather than something that
// belongs alongside the per-request sizing params.
func WithConcurrency(n int) Option {
	return func(e *Engine) { e.concurrency = n }
}

// WithClientOptions forwards option.ClientOption values (e.g.
// option.WithGRPCConnectionPool) to the lazily constructed storage client
// when no adapter was supplied via WithAdapter. Ignored if an adapter is
// supplied directly.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(e *Engine) { e.clientOpts = append(e.clientOpts, opts...) }
}

// WithRetryPolicy overrides the default 300s-deadline/1.0s-initial/1.2x-
// multiplier/45s-cap retry policy used by the lazily constructed storage
// client. Ignored if an adapter is supplied directly.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(e *Engine) { e.retryPolicy, e.retrySet = policy, true }
}

// New builds an Engine from the given options. An Engine built without
// WithAdapter has no usable adapter and must not be used to Run; it exists
// so Download can assemble one lazily once it knows which project to bind
// the default adapter to.
func New(opts ...Option) *Engine {
	e := &Engine{logger: defaultLogger{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) newCompositeName() string {
	return uuid.New().String()
}

// Run executes a download-optimized batch fetch of inputs from bucket
// according to params, using the Engine's adapter and logger. It is the
// entry point every configuration funnels through: Download below just
// constructs the default GCS-backed Engine and calls this.
func (e *Engine) Run(ctx context.Context, bucket string, inputs []ObjectRef, params OptimizationParams) (ResultVector, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return ResultVector{}, nil
	}

	concurrency := params.GroupConcurrency
	if e.concurrency > 0 {
		concurrency = e.concurrency
	}

	tasks := plan(inputs, params)
	return runConcurrent(ctx, e, bucket, tasks, len(inputs), concurrency)
}

// Download is the package-level convenience entry point: it lazily
// constructs a GCS-backed Engine bound to project (unless overridden via
// WithAdapter) and runs a batch fetch against bucket. Most callers that
// only ever talk to one project and bucket per process want this instead
// of managing an Engine themselves.
func Download(ctx context.Context, project, bucket string, inputs []ObjectRef, params OptimizationParams, opts ...Option) (ResultVector, error) {
	e := New(opts...)

	if e.adapter == nil {
		policy := DefaultRetryPolicy()
		if e.retrySet {
			policy = e.retryPolicy
		}
		adapter, err := NewGCSAdapterForProject(ctx, project, policy, e.clientOpts...)
		if err != nil {
			return nil, err
		}
		e.adapter = adapter
	}

	return e.Run(ctx, bucket, inputs, params)
}
