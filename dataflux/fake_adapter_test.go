package dataflux

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// fakeAdapter is a deterministic, in-memory Adapter used throughout this
// package's tests. It records every call it receives so tests can assert on
// call shape (sources passed to Compose, names passed to Delete) without
// talking to a real object store.
type fakeAdapter struct {
	mu sync.Mutex

	objects map[string][]byte // source object name -> content

	composites     map[string][]byte   // composite name -> content served by Download
	composeSources map[string][]string // composite name -> sources it was composed from
	deletedNames   []string

	downloadErr map[string]error
	composeErr  map[string]error
	deleteErr   map[string]error

	// composeOverride, when set, replaces the default byte-concatenation
	// behavior for Compose's resulting content — used to simulate a
	// composite whose length diverges from the sum of its sources' sizes.
	composeOverride func(sources []string) []byte

	// latencyBySource simulates per-group latency: Compose sleeps for the
	// duration keyed by its first source, letting a concurrency test give
	// each group a distinct, deterministic delay.
	latencyBySource map[string]time.Duration

	inFlightComposes    int32
	maxInFlightComposes int32
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{
		objects:        make(map[string][]byte),
		composites:     make(map[string][]byte),
		composeSources: make(map[string][]string),
		downloadErr:    make(map[string]error),
		composeErr:     make(map[string]error),
		deleteErr:      make(map[string]error),
	}
}

func (f *fakeAdapter) putObject(name string, content []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[name] = content
}

func (f *fakeAdapter) Download(ctx context.Context, bucket, name string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.downloadErr[name]; ok {
		return nil, err
	}
	if content, ok := f.composites[name]; ok {
		return content, nil
	}
	if content, ok := f.objects[name]; ok {
		return content, nil
	}
	return nil, newError("download", bucket, name, ErrNotFound)
}

func (f *fakeAdapter) Compose(ctx context.Context, bucket, destName string, sources []string) (CompositeHandle, error) {
	if len(sources) > MaxCompose {
		return CompositeHandle{}, tooManySourcesError(len(sources))
	}

	f.mu.Lock()
	latency := time.Duration(0)
	if len(sources) > 0 {
		latency = f.latencyBySource[sources[0]]
	}
	f.mu.Unlock()

	if latency > 0 {
		inFlight := atomic.AddInt32(&f.inFlightComposes, 1)
		for {
			max := atomic.LoadInt32(&f.maxInFlightComposes)
			if inFlight <= max || atomic.CompareAndSwapInt32(&f.maxInFlightComposes, max, inFlight) {
				break
			}
		}
		time.Sleep(latency)
		atomic.AddInt32(&f.inFlightComposes, -1)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.composeErr[destName]; ok {
		return CompositeHandle{}, err
	}

	var content []byte
	if f.composeOverride != nil {
		content = f.composeOverride(sources)
	} else {
		for _, src := range sources {
			content = append(content, f.objects[src]...)
		}
	}

	f.composites[destName] = content
	f.composeSources[destName] = append([]string{}, sources...)

	return CompositeHandle{Bucket: bucket, Name: destName}, nil
}

func (f *fakeAdapter) Delete(ctx context.Context, bucket, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deletedNames = append(f.deletedNames, name)
	if err, ok := f.deleteErr[name]; ok {
		return err
	}
	delete(f.composites, name)
	return nil
}

func (f *fakeAdapter) observedMaxInFlightComposes() int32 {
	return atomic.LoadInt32(&f.maxInFlightComposes)
}

// capturingLogger records every Printf call so tests can assert on the
// mandatory log events (length mismatch, delete failure) without parsing
// stdout.
type capturingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *capturingLogger) Printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf(format, args...))
}

func (l *capturingLogger) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.messages...)
}

// errors returns only the captured messages at [ERROR] level, filtering out
// the [DEBUG] progress lines the engine also emits during normal operation.
func (l *capturingLogger) errors() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, m := range l.messages {
		if strings.HasPrefix(m, "[ERROR]") {
			out = append(out, m)
		}
	}
	return out
}
