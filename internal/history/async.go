package history

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"myfuel/pkg/fuel"
)

const defaultWriteTimeout = 10 * time.Second

// AsyncRecorder decouples history writes from the request path: every
// Record runs on its own goroutine with its own timeout and failures are
// logged, never returned.
type AsyncRecorder struct {
	inner   Recorder
	log     *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewAsyncRecorder wraps a Recorder with fire-and-forget semantics.
func NewAsyncRecorder(inner Recorder, logger *slog.Logger) *AsyncRecorder {
	return &AsyncRecorder{
		inner:   inner,
		log:     logger,
		timeout: defaultWriteTimeout,
	}
}

// Record schedules the write and returns immediately. The write is
// detached from the caller's cancellation: the response does not wait for
// it and an abandoned request does not abort it.
func (r *AsyncRecorder) Record(ctx context.Context, station fuel.Station) error {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()
		if err := r.inner.Record(writeCtx, station); err != nil {
			r.log.Warn("history write failed", "ext_id", station.ExternalID(), "error", err)
		}
	}()
	return nil
}

// Wait blocks until all scheduled writes have finished. Called on shutdown
// so pending writes are not cut off mid-transaction.
func (r *AsyncRecorder) Wait() {
	r.wg.Wait()
}
