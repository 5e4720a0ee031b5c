// Package domain provides domain models used across the application.
package domain

import (
	"time"
)

// AuditStatus represents the lifecycle state of an audit run.
// Transitions are linear: queued -> running -> completed|failed.
type AuditStatus string

const (
	// AuditStatusQueued indicates the audit is waiting to be processed.
	AuditStatusQueued AuditStatus = "queued"
	// AuditStatusRunning indicates the audit is being processed.
	AuditStatusRunning AuditStatus = "running"
	// AuditStatusCompleted indicates the audit finished successfully.
	AuditStatusCompleted AuditStatus = "completed"
	// AuditStatusFailed indicates the audit finished with an error.
	AuditStatusFailed AuditStatus = "failed"
)

// IsTerminal reports whether the status is completed or failed.
func (s AuditStatus) IsTerminal() bool {
	return s == AuditStatusCompleted || s == AuditStatusFailed
}

// AuditResult represents a single audit run of one URL.
type AuditResult struct {
	// Identity
	ID        string `db:"id"         json:"audit_id"`
	ProjectID string `db:"project_id" json:"project_id"`
	URL       string `db:"url"        json:"url"`

	// Status
	Status AuditStatus `db:"status" json:"status"`
	Score  *int        `db:"score"  json:"score,omitempty"`

	// Timing
	CreatedAt  time.Time  `db:"created_at"  json:"created_at"`
	FinishedAt *time.Time `db:"finished_at" json:"finished_at,omitempty"`

	// Findings, stored as JSONB documents.
	Issues          IssueList          `db:"issues"          json:"issues"`
	Recommendations RecommendationList `db:"recommendations" json:"recommendations"`
	Checklist       ChecklistItems     `db:"checklist"       json:"checklist"`
	Metrics         MetricsMap         `db:"metrics"         json:"metrics"`

	// Error holds the failure reason for failed audits.
	Error *string `db:"error" json:"error,omitempty"`
}

// HistoryEntry records one completed audit's score for a project.
type HistoryEntry struct {
	ID        int64     `db:"id"         json:"id"`
	ProjectID string    `db:"project_id" json:"project_id"`
	Timestamp time.Time `db:"timestamp"  json:"timestamp"`
	Score     int       `db:"score"      json:"score"`
}
