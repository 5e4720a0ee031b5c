// Package metrics provides runtime counters for audit processing.
package metrics

import (
	"sync"
	"time"
)

// Metrics holds audit processing counters. The queue consumer and the local
// dispatcher update them; the admin overview endpoint reads them.
type Metrics struct {
	mu sync.Mutex

	processed       int64
	completed       int64
	failed          int64
	lastProcessedAt time.Time
	startTime       time.Time
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	ProcessedCount  int64      `json:"processed_count"`
	CompletedCount  int64      `json:"completed_count"`
	FailedCount     int64      `json:"failed_count"`
	LastProcessedAt *time.Time `json:"last_processed_at,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// IncCompleted records one audit that finished in completed state.
func (m *Metrics) IncCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed++
	m.completed++
	m.lastProcessedAt = time.Now()
}

// IncFailed records one audit that finished in failed state.
func (m *Metrics) IncFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed++
	m.failed++
	m.lastProcessedAt = time.Now()
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		ProcessedCount: m.processed,
		CompletedCount: m.completed,
		FailedCount:    m.failed,
		StartedAt:      m.startTime,
	}
	if !m.lastProcessedAt.IsZero() {
		last := m.lastProcessedAt
		snap.LastProcessedAt = &last
	}

	return snap
}
