// Package audit coordinates one full audit run: page inspection,
// supplementary metric collection, rule evaluation, scoring, persistence
// and completion mail.
package audit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jonesrussell/goseo/internal/database"
	"github.com/jonesrussell/goseo/internal/domain"
	"github.com/jonesrussell/goseo/internal/logger"
	"github.com/jonesrussell/goseo/internal/perf"
	"github.com/jonesrussell/goseo/internal/report"
	"github.com/jonesrussell/goseo/internal/seo"
)

const (
	// maxErrorLength caps the failure reason persisted on the audit row.
	maxErrorLength = 1000

	// failurePersistTimeout bounds the failure write, which runs on its
	// own context. The job context may already be canceled by then.
	failurePersistTimeout = 10 * time.Second
)

// AuditStore persists audit state transitions.
type AuditStore interface {
	GetByID(ctx context.Context, id string) (*domain.AuditResult, error)
	MarkStatus(ctx context.Context, id string, status domain.AuditStatus) error
	CompleteAudit(ctx context.Context, audit *domain.AuditResult) error
}

// ProjectStore resolves the audited project's notification address.
type ProjectStore interface {
	GetByID(ctx context.Context, id string) (*domain.Project, error)
}

// Inspector produces the page snapshot for one URL.
type Inspector interface {
	Inspect(ctx context.Context, pageURL string) (domain.PageSnapshot, error)
}

// Notifier sends the completion mail with the rendered report attached.
type Notifier interface {
	Enabled() bool
	SendAuditReport(recipient string, audit *domain.AuditResult, pdf []byte) error
}

// Coordinator drives one audit from queued to a terminal state.
type Coordinator struct {
	audits     AuditStore
	projects   ProjectStore
	inspector  Inspector
	collectors []perf.Collector
	notifier   Notifier
	log        logger.Interface
}

// NewCoordinator creates a coordinator with its dependencies injected.
// The notifier may be nil when mail is not configured.
func NewCoordinator(
	audits AuditStore,
	projects ProjectStore,
	inspector Inspector,
	collectors []perf.Collector,
	notifier Notifier,
	log logger.Interface,
) *Coordinator {
	return &Coordinator{
		audits:     audits,
		projects:   projects,
		inspector:  inspector,
		collectors: collectors,
		notifier:   notifier,
		log:        log,
	}
}

// Run executes the audit identified by auditID. A job for an unknown audit
// is logged and dropped. A non-nil return means the run ended failed; the
// failure reason is already persisted on the audit row.
func (c *Coordinator) Run(ctx context.Context, auditID string) error {
	audit, err := c.audits.GetByID(ctx, auditID)
	if errors.Is(err, database.ErrAuditNotFound) {
		c.log.Warn("Dropping job for unknown audit", "audit_id", auditID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load audit %s: %w", auditID, err)
	}

	if err := c.audits.MarkStatus(ctx, auditID, domain.AuditStatusRunning); err != nil {
		return fmt.Errorf("failed to mark audit %s running: %w", auditID, err)
	}

	c.log.Info("Audit started",
		"audit_id", auditID,
		"url", audit.URL,
	)

	if runErr := c.execute(ctx, audit); runErr != nil {
		c.persistFailure(audit, runErr)
		return runErr
	}

	c.notify(ctx, audit)

	return nil
}

// execute performs the audit stages and persists the completed result.
func (c *Coordinator) execute(ctx context.Context, audit *domain.AuditResult) error {
	snapshot, err := c.inspector.Inspect(ctx, audit.URL)
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", audit.URL, err)
	}

	supplementary := perf.CollectAll(ctx, audit.URL, c.collectors...)

	issues := seo.BuildIssues(snapshot, supplementary)
	issueScore := seo.CalculateScore(issues, snapshot.StatusCode)

	metrics := seo.SnapshotMetrics(snapshot)
	for key, value := range supplementary {
		metrics[key] = value
	}

	audit.Issues = issues
	audit.Metrics = metrics
	audit.Recommendations = seo.ToRecommendations(issues)
	audit.Checklist = seo.BuildChecklist(*audit)

	score, checklistScore := seo.CalculateHybridScore(issueScore, audit.Checklist)
	audit.Score = &score
	metrics[seo.MetricIssueScore] = float64(issueScore)
	metrics[seo.MetricChecklistScore] = math.Round(checklistScore*100) / 100
	metrics[seo.MetricHybridScore] = float64(score)

	now := time.Now().UTC()
	audit.Status = domain.AuditStatusCompleted
	audit.FinishedAt = &now

	if err := c.audits.CompleteAudit(ctx, audit); err != nil {
		return fmt.Errorf("failed to persist audit %s: %w", audit.ID, err)
	}

	c.log.Info("Audit completed",
		"audit_id", audit.ID,
		"url", audit.URL,
		"score", score,
	)

	return nil
}

// persistFailure records the terminal failed state. Partial findings from
// the aborted run are discarded rather than stored.
func (c *Coordinator) persistFailure(audit *domain.AuditResult, runErr error) {
	reason := runErr.Error()
	if runes := []rune(reason); len(runes) > maxErrorLength {
		reason = string(runes[:maxErrorLength])
	}

	now := time.Now().UTC()
	audit.Status = domain.AuditStatusFailed
	audit.Error = &reason
	audit.FinishedAt = &now
	audit.Score = nil
	audit.Issues = nil
	audit.Recommendations = nil
	audit.Checklist = nil
	audit.Metrics = nil

	ctx, cancel := context.WithTimeout(context.Background(), failurePersistTimeout)
	defer cancel()

	if err := c.audits.CompleteAudit(ctx, audit); err != nil {
		c.log.Error("Failed to persist failed audit",
			"audit_id", audit.ID,
			"error", err,
		)
	}
}

// notify mails the completed audit to the project's notification address.
// Every notification failure is logged and swallowed: a completed audit
// stays completed.
func (c *Coordinator) notify(ctx context.Context, audit *domain.AuditResult) {
	if c.notifier == nil || !c.notifier.Enabled() {
		return
	}

	project, err := c.projects.GetByID(ctx, audit.ProjectID)
	if err != nil {
		c.log.Error("Failed to load project for notification",
			"audit_id", audit.ID,
			"project_id", audit.ProjectID,
			"error", err,
		)
		return
	}
	if project.NotifyEmail == nil || *project.NotifyEmail == "" {
		return
	}

	pdf, err := report.PDFBytes(audit)
	if err != nil {
		c.log.Error("Failed to render report for notification",
			"audit_id", audit.ID,
			"error", err,
		)
		return
	}

	if err := c.notifier.SendAuditReport(*project.NotifyEmail, audit, pdf); err != nil {
		c.log.Error("Failed to send completion mail",
			"audit_id", audit.ID,
			"error", err,
		)
	}
}
