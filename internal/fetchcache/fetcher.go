// Package fetchcache wraps a remote retrieval function with a TTL snapshot
// cache and stale-on-error fallback.
//
// Unlike an entry cache (go-cache), the snapshot here is deliberately kept
// past its TTL: an expired snapshot is still the best answer available when
// a refresh fails.
package fetchcache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// LoadFunc retrieves and normalizes the full record set from a source.
type LoadFunc[T any] func(ctx context.Context) ([]T, error)

type snapshot[T any] struct {
	data       []T
	lastUpdate time.Time
}

// Fetcher caches the full record set of one data source.
type Fetcher[T any] struct {
	name string
	ttl  time.Duration
	load LoadFunc[T]
	log  *slog.Logger
	now  func() time.Time

	mu   sync.Mutex
	snap *snapshot[T]
}

// Option configures a Fetcher.
type Option[T any] func(*Fetcher[T])

// WithClock injects a clock, used by tests to control TTL expiry.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(f *Fetcher[T]) {
		f.now = now
	}
}

// New creates a Fetcher for one source. name appears in log lines only.
func New[T any](name string, ttl time.Duration, load LoadFunc[T], log *slog.Logger, opts ...Option[T]) *Fetcher[T] {
	f := &Fetcher[T]{
		name: name,
		ttl:  ttl,
		load: load,
		log:  log,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the cached snapshot while it is fresh, otherwise reloads
// from the source. On reload failure any previous snapshot, even expired,
// is served as a stale fallback; with no snapshot at all the error
// propagates.
//
// Concurrent fetches on an expired cache may trigger duplicate loads; the
// remote calls are idempotent GETs so this is an accepted inefficiency.
// The returned slice is shared between callers and must not be mutated.
func (f *Fetcher[T]) Fetch(ctx context.Context) ([]T, error) {
	f.mu.Lock()
	if f.snap != nil && f.now().Sub(f.snap.lastUpdate) < f.ttl {
		data := f.snap.data
		f.mu.Unlock()
		return data, nil
	}
	f.mu.Unlock()

	data, err := f.load(ctx)
	if err != nil {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.snap != nil {
			f.log.Warn("refresh failed, serving stale snapshot",
				"source", f.name,
				"age", f.now().Sub(f.snap.lastUpdate).String(),
				"error", err)
			return f.snap.data, nil
		}
		return nil, fmt.Errorf("%s: refresh failed with no cached snapshot: %w", f.name, err)
	}

	f.mu.Lock()
	// Data and timestamp are swapped together so a concurrent reader never
	// sees a fresh timestamp with old data.
	f.snap = &snapshot[T]{data: data, lastUpdate: f.now()}
	f.mu.Unlock()

	f.log.Debug("snapshot refreshed", "source", f.name, "records", len(data))
	return data, nil
}
