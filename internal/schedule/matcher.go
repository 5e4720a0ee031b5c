// Package schedule fires recurring weekly audits at their UTC slot.
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/goseo/internal/dispatch"
	"github.com/jonesrussell/goseo/internal/domain"
	"github.com/jonesrussell/goseo/internal/logger"
)

// defaultPollInterval is how often due schedules are checked. Slots are
// minute grained, so polling twice per minute cannot miss one.
const defaultPollInterval = 30 * time.Second

// ScheduleStore lists due schedules and records fired ones.
type ScheduleStore interface {
	ListDue(ctx context.Context, now time.Time) ([]domain.Schedule, error)
	MarkRun(ctx context.Context, id string, ranAt time.Time) error
}

// AuditCreator persists the queued audit row for a fired schedule.
type AuditCreator interface {
	Create(ctx context.Context, audit *domain.AuditResult) error
}

// Matcher polls for due schedules and dispatches one audit per match.
type Matcher struct {
	schedules  ScheduleStore
	audits     AuditCreator
	dispatcher dispatch.Dispatcher
	log        logger.Interface
	interval   time.Duration
	now        func() time.Time
	wg         sync.WaitGroup
}

// NewMatcher creates a matcher polling at the given interval (default 30 s),
// reading the wall clock. Tests swap the clock out through the now field.
func NewMatcher(
	schedules ScheduleStore,
	audits AuditCreator,
	dispatcher dispatch.Dispatcher,
	log logger.Interface,
	interval time.Duration,
) *Matcher {
	if interval <= 0 {
		interval = defaultPollInterval
	}

	return &Matcher{
		schedules:  schedules,
		audits:     audits,
		dispatcher: dispatcher,
		log:        log,
		interval:   interval,
		now:        time.Now,
	}
}

// Start launches the poll loop. It runs until ctx is canceled.
func (m *Matcher) Start(ctx context.Context) {
	m.log.Info("Starting schedule matcher", "poll_interval", m.interval)

	m.wg.Add(1)
	go m.poll(ctx)
}

// Wait blocks until the poll loop has exited.
func (m *Matcher) Wait() {
	m.wg.Wait()
}

func (m *Matcher) poll(ctx context.Context) {
	defer m.wg.Done()

	// First pass runs immediately so a restart does not wait out a tick.
	m.fireDue(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("Schedule matcher stopped")
			return
		case <-ticker.C:
			m.fireDue(ctx)
		}
	}
}

// fireDue runs one matching pass. Errors are logged and skipped so one bad
// schedule cannot stall the rest.
func (m *Matcher) fireDue(ctx context.Context) {
	now := m.now().UTC().Truncate(time.Minute)

	due, err := m.schedules.ListDue(ctx, now)
	if err != nil {
		m.log.Error("Failed to list due schedules", "error", err)
		return
	}

	for _, sched := range due {
		if err := m.fire(ctx, sched, now); err != nil {
			m.log.Error("Failed to fire schedule",
				"schedule_id", sched.ID,
				"error", err,
			)
		}
	}
}

// fire creates the queued audit, hands it to the dispatcher and records the
// run. An unmarked schedule stays due and is retried on the next pass.
func (m *Matcher) fire(ctx context.Context, sched domain.Schedule, now time.Time) error {
	audit := &domain.AuditResult{
		ID:        uuid.NewString(),
		ProjectID: sched.ProjectID,
		URL:       sched.URL,
		Status:    domain.AuditStatusQueued,
	}

	if err := m.audits.Create(ctx, audit); err != nil {
		return fmt.Errorf("failed to create audit: %w", err)
	}

	if err := m.dispatcher.Dispatch(ctx, audit.ID); err != nil {
		return fmt.Errorf("failed to dispatch audit %s: %w", audit.ID, err)
	}

	if err := m.schedules.MarkRun(ctx, sched.ID, now); err != nil {
		return fmt.Errorf("failed to mark schedule run: %w", err)
	}

	m.log.Info("Scheduled audit dispatched",
		"schedule_id", sched.ID,
		"audit_id", audit.ID,
		"url", sched.URL,
	)

	return nil
}
