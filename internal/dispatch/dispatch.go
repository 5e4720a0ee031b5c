// Package dispatch hands freshly queued audits to a worker path.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/jonesrussell/goseo/internal/logger"
	"github.com/jonesrussell/goseo/internal/metrics"
	"github.com/jonesrussell/goseo/internal/queue"
)

// defaultJobTimeout bounds fallback runs the same way the queue consumer
// bounds queued ones.
const defaultJobTimeout = 20 * time.Minute

// Dispatcher accepts an audit id for asynchronous processing.
type Dispatcher interface {
	Dispatch(ctx context.Context, auditID string) error
}

// Runner drives one audit to its terminal state.
type Runner interface {
	Run(ctx context.Context, auditID string) error
}

// QueueDispatcher enqueues audits onto the Redis stream.
type QueueDispatcher struct {
	producer *queue.Producer
}

// NewQueueDispatcher creates a dispatcher backed by the stream producer.
func NewQueueDispatcher(producer *queue.Producer) *QueueDispatcher {
	return &QueueDispatcher{producer: producer}
}

// Dispatch enqueues the audit id.
func (d *QueueDispatcher) Dispatch(ctx context.Context, auditID string) error {
	if _, err := d.producer.Enqueue(ctx, auditID); err != nil {
		return fmt.Errorf("queue dispatch: %w", err)
	}
	return nil
}

// LocalDispatcher runs audits on detached goroutines in this process. It is
// the degraded path when Redis is unavailable, and never blocks the caller.
type LocalDispatcher struct {
	runner     Runner
	counters   *metrics.Metrics
	log        logger.Interface
	jobTimeout time.Duration
}

// NewLocalDispatcher creates an in-process dispatcher.
func NewLocalDispatcher(runner Runner, counters *metrics.Metrics, log logger.Interface, jobTimeout time.Duration) *LocalDispatcher {
	if jobTimeout <= 0 {
		jobTimeout = defaultJobTimeout
	}
	return &LocalDispatcher{
		runner:     runner,
		counters:   counters,
		log:        log,
		jobTimeout: jobTimeout,
	}
}

// Dispatch starts the run on a fresh detached context so the audit outlives
// the caller's request.
func (d *LocalDispatcher) Dispatch(_ context.Context, auditID string) error {
	go func() {
		runCtx, cancel := context.WithTimeout(context.Background(), d.jobTimeout)
		defer cancel()

		if err := d.runner.Run(runCtx, auditID); err != nil {
			d.counters.IncFailed()
			d.log.Error("Local audit run failed", "audit_id", auditID, "error", err)
			return
		}
		d.counters.IncCompleted()
	}()

	return nil
}

// FallbackDispatcher tries the primary path and degrades to the fallback.
type FallbackDispatcher struct {
	primary  Dispatcher
	fallback Dispatcher
	log      logger.Interface
}

// NewFallbackDispatcher chains two dispatchers.
func NewFallbackDispatcher(primary, fallback Dispatcher, log logger.Interface) *FallbackDispatcher {
	return &FallbackDispatcher{
		primary:  primary,
		fallback: fallback,
		log:      log,
	}
}

// Dispatch returns nil as soon as either path accepted the audit.
func (d *FallbackDispatcher) Dispatch(ctx context.Context, auditID string) error {
	err := d.primary.Dispatch(ctx, auditID)
	if err == nil {
		return nil
	}

	d.log.Warn("Primary dispatch failed, falling back", "audit_id", auditID, "error", err)
	return d.fallback.Dispatch(ctx, auditID)
}

// SyncDispatcher runs the audit inline. Used by the one-shot CLI and tests.
type SyncDispatcher struct {
	runner Runner
}

// NewSyncDispatcher creates a synchronous dispatcher.
func NewSyncDispatcher(runner Runner) *SyncDispatcher {
	return &SyncDispatcher{runner: runner}
}

// Dispatch runs the audit before returning.
func (d *SyncDispatcher) Dispatch(ctx context.Context, auditID string) error {
	return d.runner.Run(ctx, auditID)
}
