package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jonesrussell/goseo/internal/domain"
)

// ErrScheduleNotFound is returned when a schedule lookup matches no row.
// Callers should check with errors.Is().
var ErrScheduleNotFound = errors.New("schedule not found")

// rerunGuard keeps a weekly schedule from firing more than once around its
// slot: a schedule is due only if it never ran or last ran almost a week ago.
const rerunGuard = 6 * 24 * time.Hour

// scheduleSelectColumns lists columns for SELECT queries on scheduled_audits.
const scheduleSelectColumns = `id, project_id, user_id, url, weekday, hour_utc, minute_utc,
	enabled, last_run_at, created_at`

// ScheduleRepository handles database operations for recurring audits.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create inserts a new schedule.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *domain.Schedule) error {
	query := `
		INSERT INTO scheduled_audits (id, project_id, user_id, url, weekday, hour_utc, minute_utc, enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		schedule.ID,
		schedule.ProjectID,
		schedule.UserID,
		schedule.URL,
		schedule.Weekday,
		schedule.HourUTC,
		schedule.MinuteUTC,
		schedule.Enabled,
	).Scan(&schedule.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	return nil
}

// ListByUser retrieves all schedules owned by a user, newest first.
func (r *ScheduleRepository) ListByUser(ctx context.Context, userID string) ([]domain.Schedule, error) {
	var schedules []domain.Schedule
	query := `
		SELECT ` + scheduleSelectColumns + `
		FROM scheduled_audits
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	err := r.db.SelectContext(ctx, &schedules, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	if schedules == nil {
		schedules = []domain.Schedule{}
	}

	return schedules, nil
}

// ListDue retrieves enabled schedules whose weekday, hour and minute match
// the given instant (UTC) and that have not already run this week.
func (r *ScheduleRepository) ListDue(ctx context.Context, now time.Time) ([]domain.Schedule, error) {
	now = now.UTC()

	var schedules []domain.Schedule
	query := `
		SELECT ` + scheduleSelectColumns + `
		FROM scheduled_audits
		WHERE enabled = TRUE
		  AND weekday = $1
		  AND hour_utc = $2
		  AND minute_utc = $3
		  AND (last_run_at IS NULL OR last_run_at <= $4)
	`

	err := r.db.SelectContext(
		ctx,
		&schedules,
		query,
		mondayWeekday(now.Weekday()),
		now.Hour(),
		now.Minute(),
		now.Add(-rerunGuard),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list due schedules: %w", err)
	}

	if schedules == nil {
		schedules = []domain.Schedule{}
	}

	return schedules, nil
}

// MarkRun records that a schedule fired at the given time.
func (r *ScheduleRepository) MarkRun(ctx context.Context, id string, t time.Time) error {
	query := `UPDATE scheduled_audits SET last_run_at = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, t, id)
	return requireAffected(result, err, ErrScheduleNotFound)
}

// mondayWeekday converts Go's Sunday=0 weekday to the stored Monday=0 form.
func mondayWeekday(d time.Weekday) int {
	return (int(d) + 6) % 7
}
