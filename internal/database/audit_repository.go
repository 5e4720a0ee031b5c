package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jonesrussell/goseo/internal/domain"
)

// ErrAuditNotFound is returned when an audit lookup matches no row.
// Callers should check with errors.Is().
var ErrAuditNotFound = errors.New("audit not found")

// auditSelectColumns lists columns for SELECT queries on audits.
const auditSelectColumns = `id, project_id, url, status, score, created_at, finished_at,
	issues, recommendations, checklist, metrics, error`

// AuditRepository handles database operations for audit runs.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts a new audit row. The finding columns start out as the
// audit's current (usually empty) collections so result reads never see NULL.
func (r *AuditRepository) Create(ctx context.Context, audit *domain.AuditResult) error {
	query := `
		INSERT INTO audits (id, project_id, url, status, issues, recommendations, checklist, metrics)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		audit.ID,
		audit.ProjectID,
		audit.URL,
		audit.Status,
		audit.Issues,
		audit.Recommendations,
		audit.Checklist,
		audit.Metrics,
	).Scan(&audit.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create audit: %w", err)
	}

	return nil
}

// GetByID retrieves an audit by its ID.
func (r *AuditRepository) GetByID(ctx context.Context, id string) (*domain.AuditResult, error) {
	var audit domain.AuditResult
	query := `SELECT ` + auditSelectColumns + ` FROM audits WHERE id = $1`

	err := r.db.GetContext(ctx, &audit, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAuditNotFound
		}
		return nil, fmt.Errorf("failed to get audit: %w", err)
	}

	return &audit, nil
}

// GetOwned retrieves an audit only when it belongs to one of the user's
// projects. Missing and foreign audits are indistinguishable to the caller.
func (r *AuditRepository) GetOwned(ctx context.Context, id, userID string) (*domain.AuditResult, error) {
	var audit domain.AuditResult
	query := `
		SELECT ` + auditSelectColumns + `
		FROM audits
		WHERE id = $1
		  AND project_id IN (SELECT id FROM projects WHERE user_id = $2)
	`

	err := r.db.GetContext(ctx, &audit, query, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAuditNotFound
		}
		return nil, fmt.Errorf("failed to get audit: %w", err)
	}

	return &audit, nil
}

// MarkStatus updates only the status column.
func (r *AuditRepository) MarkStatus(ctx context.Context, id string, status domain.AuditStatus) error {
	query := `UPDATE audits SET status = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	return requireAffected(result, err, ErrAuditNotFound)
}

// CompleteAudit writes the terminal state of an audit in one transaction:
// status, score, finish time, findings, and the error column. Completed
// audits additionally get an audit_history row for the project trend.
func (r *AuditRepository) CompleteAudit(ctx context.Context, audit *domain.AuditResult) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin complete transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if updateErr := completeUpdate(ctx, tx, audit); updateErr != nil {
		return updateErr
	}

	if audit.Status == domain.AuditStatusCompleted {
		if historyErr := insertHistory(ctx, tx, audit); historyErr != nil {
			return historyErr
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return fmt.Errorf("failed to commit complete transaction: %w", commitErr)
	}

	return nil
}

// completeUpdate writes the terminal audit columns within a transaction.
func completeUpdate(ctx context.Context, tx *sqlx.Tx, audit *domain.AuditResult) error {
	query := `
		UPDATE audits
		SET status = $1, score = $2, finished_at = $3, issues = $4,
		    recommendations = $5, checklist = $6, metrics = $7, error = $8
		WHERE id = $9
	`

	result, err := tx.ExecContext(
		ctx,
		query,
		audit.Status,
		audit.Score,
		audit.FinishedAt,
		audit.Issues,
		audit.Recommendations,
		audit.Checklist,
		audit.Metrics,
		audit.Error,
		audit.ID,
	)
	return requireAffected(result, err, ErrAuditNotFound)
}

// insertHistory records a completed audit's score within a transaction.
func insertHistory(ctx context.Context, tx *sqlx.Tx, audit *domain.AuditResult) error {
	query := `
		INSERT INTO audit_history (project_id, timestamp, score)
		VALUES ($1, COALESCE($2, NOW()), $3)
	`

	_, err := tx.ExecContext(ctx, query, audit.ProjectID, audit.FinishedAt, audit.Score)
	if err != nil {
		return fmt.Errorf("failed to insert audit history: %w", err)
	}

	return nil
}

// HistoryByProject retrieves the most recent score history rows for a project.
func (r *AuditRepository) HistoryByProject(ctx context.Context, projectID string, limit int) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	query := `
		SELECT id, project_id, timestamp, score
		FROM audit_history
		WHERE project_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`

	err := r.db.SelectContext(ctx, &entries, query, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit history: %w", err)
	}

	if entries == nil {
		entries = []domain.HistoryEntry{}
	}

	return entries, nil
}

// LatestCompletedByProject retrieves the newest completed audit for a project.
func (r *AuditRepository) LatestCompletedByProject(ctx context.Context, projectID string) (*domain.AuditResult, error) {
	var audit domain.AuditResult
	query := `
		SELECT ` + auditSelectColumns + `
		FROM audits
		WHERE project_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &audit, query, projectID, domain.AuditStatusCompleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAuditNotFound
		}
		return nil, fmt.Errorf("failed to get latest completed audit: %w", err)
	}

	return &audit, nil
}

// DeleteTerminalOlderThan removes completed and failed audits created before
// the cutoff. Returns the number of rows removed.
func (r *AuditRepository) DeleteTerminalOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM audits
		WHERE status IN ($1, $2) AND created_at < $3
	`

	result, err := r.db.ExecContext(ctx, query, domain.AuditStatusCompleted, domain.AuditStatusFailed, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old audits: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}
