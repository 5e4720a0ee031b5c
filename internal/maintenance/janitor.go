// Package maintenance prunes old terminal audits and trims the work
// queue on a nightly cron.
package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jonesrussell/goseo/internal/logger"
)

const (
	// DefaultSchedule runs the janitor nightly at 03:00.
	DefaultSchedule = "0 3 * * *"
	// DefaultRetention keeps terminal audits for 90 days.
	DefaultRetention = 90 * 24 * time.Hour

	// runTimeout bounds one janitor pass.
	runTimeout = 5 * time.Minute
)

// AuditPruner deletes terminal audits older than a cutoff.
type AuditPruner interface {
	DeleteTerminalOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// StreamTrimmer drops excess entries from the work queue stream.
type StreamTrimmer interface {
	TrimStream(ctx context.Context) error
}

// Config holds the janitor schedule and retention window.
type Config struct {
	Schedule  string        `json:"schedule"`
	Retention time.Duration `json:"retention"`
}

// Janitor owns the cron runner. The trimmer may be nil when the service
// runs without a queue.
type Janitor struct {
	pruner    AuditPruner
	trimmer   StreamTrimmer
	cron      *cron.Cron
	schedule  string
	retention time.Duration
	log       logger.Interface
}

// NewJanitor creates a janitor with defaults applied for a zero config.
func NewJanitor(pruner AuditPruner, trimmer StreamTrimmer, cfg Config, log logger.Interface) *Janitor {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultRetention
	}

	// Standard 5-field cron parser (minute hour day month weekday).
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cron.DefaultLogger)))

	return &Janitor{
		pruner:    pruner,
		trimmer:   trimmer,
		cron:      c,
		schedule:  cfg.Schedule,
		retention: cfg.Retention,
		log:       log,
	}
}

// Start registers the nightly job and starts the cron runner.
func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.runOnce); err != nil {
		return err
	}

	j.cron.Start()
	j.log.Info("Janitor started",
		"schedule", j.schedule,
		"retention", j.retention,
	)

	return nil
}

// Stop halts the cron runner and waits for a running pass to finish.
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
	j.log.Info("Janitor stopped")
}

// runOnce executes one maintenance pass.
func (j *Janitor) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cutoff := time.Now().UTC().Add(-j.retention)
	deleted, err := j.pruner.DeleteTerminalOlderThan(ctx, cutoff)
	if err != nil {
		j.log.Error("Failed to prune old audits", "error", err)
	} else if deleted > 0 {
		j.log.Info("Pruned old audits", "deleted", deleted, "cutoff", cutoff)
	}

	if j.trimmer == nil {
		return
	}
	if err := j.trimmer.TrimStream(ctx); err != nil {
		j.log.Error("Failed to trim queue stream", "error", err)
	}
}
