package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/goseo/internal/database"
	"github.com/jonesrussell/goseo/internal/domain"
)

var scheduleColumns = []string{
	"id", "project_id", "user_id", "url", "weekday", "hour_utc", "minute_utc",
	"enabled", "last_run_at", "created_at",
}

func newScheduleRepoMock(t *testing.T) (*database.ScheduleRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "postgres")
	return database.NewScheduleRepository(db), mock
}

func TestScheduleRepository_Create(t *testing.T) {
	repo, mock := newScheduleRepoMock(t)
	ctx := context.Background()

	createdAt := time.Now()
	mock.ExpectQuery("INSERT INTO scheduled_audits").
		WithArgs("sched-1", "project-1", "user-1", "https://example.com", 2, 14, 30, true).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	schedule := &domain.Schedule{
		ID:        "sched-1",
		ProjectID: "project-1",
		UserID:    "user-1",
		URL:       "https://example.com",
		Weekday:   2,
		HourUTC:   14,
		MinuteUTC: 30,
		Enabled:   true,
	}

	if err := repo.Create(ctx, schedule); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if !schedule.CreatedAt.Equal(createdAt) {
		t.Errorf("expected created_at %v, got %v", createdAt, schedule.CreatedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// 2026-01-07 is a Wednesday: Go reports weekday 3, the stored form is 2.
func TestScheduleRepository_ListDue_ConvertsWeekday(t *testing.T) {
	repo, mock := newScheduleRepoMock(t)
	ctx := context.Background()

	now := time.Date(2026, 1, 7, 14, 30, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM scheduled_audits").
		WithArgs(2, 14, 30, now.Add(-6*24*time.Hour)).
		WillReturnRows(sqlmock.NewRows(scheduleColumns).
			AddRow("sched-1", "project-1", "user-1", "https://example.com", 2, 14, 30, true, nil, now))

	due, err := repo.ListDue(ctx, now)
	if err != nil {
		t.Fatalf("ListDue() error = %v", err)
	}

	if len(due) != 1 {
		t.Fatalf("expected 1 due schedule, got %d", len(due))
	}
	if due[0].ID != "sched-1" || due[0].Weekday != 2 {
		t.Errorf("unexpected schedule: %+v", due[0])
	}
	if due[0].LastRunAt != nil {
		t.Errorf("expected nil last_run_at, got %v", due[0].LastRunAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// 2026-01-11 is a Sunday: Go reports weekday 0, the stored form is 6.
func TestScheduleRepository_ListDue_SundayMapsToSix(t *testing.T) {
	repo, mock := newScheduleRepoMock(t)
	ctx := context.Background()

	now := time.Date(2026, 1, 11, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM scheduled_audits").
		WithArgs(6, 8, 0, now.Add(-6*24*time.Hour)).
		WillReturnRows(sqlmock.NewRows(scheduleColumns))

	due, err := repo.ListDue(ctx, now)
	if err != nil {
		t.Fatalf("ListDue() error = %v", err)
	}

	if due == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(due) != 0 {
		t.Errorf("expected no due schedules, got %d", len(due))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestScheduleRepository_MarkRun(t *testing.T) {
	testCases := []struct {
		name         string
		rowsAffected int64
		wantErr      error
	}{
		{name: "records run time", rowsAffected: 1, wantErr: nil},
		{name: "missing schedule returns not found", rowsAffected: 0, wantErr: database.ErrScheduleNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newScheduleRepoMock(t)

			ranAt := time.Now()
			mock.ExpectExec("UPDATE scheduled_audits").
				WithArgs(ranAt, "sched-1").
				WillReturnResult(sqlmock.NewResult(0, tc.rowsAffected))

			err := repo.MarkRun(context.Background(), "sched-1", ranAt)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("MarkRun() error = %v, want %v", err, tc.wantErr)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}
