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

func newUserRepoMock(t *testing.T) (*database.UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "postgres")
	return database.NewUserRepository(db), mock
}

func TestUserRepository_Create(t *testing.T) {
	repo, mock := newUserRepoMock(t)
	ctx := context.Background()

	createdAt := time.Now()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("user-1", "owner@example.com", "$2a$10$hash").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	user := &domain.User{
		ID:           "user-1",
		Email:        "owner@example.com",
		PasswordHash: "$2a$10$hash",
	}

	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if !user.CreatedAt.Equal(createdAt) {
		t.Errorf("expected created_at %v, got %v", createdAt, user.CreatedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	repo, mock := newUserRepoMock(t)
	ctx := context.Background()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("owner@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow("user-1", "owner@example.com", "$2a$10$hash", now))

	user, err := repo.GetByEmail(ctx, "owner@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}

	if user.ID != "user-1" || user.PasswordHash != "$2a$10$hash" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	repo, mock := newUserRepoMock(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByEmail(ctx, "ghost@example.com")
	if !errors.Is(err, database.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	testCases := []struct {
		name   string
		exists bool
	}{
		{name: "registered email", exists: true},
		{name: "unknown email", exists: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newUserRepoMock(t)

			mock.ExpectQuery("SELECT EXISTS").
				WithArgs("owner@example.com").
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tc.exists))

			exists, err := repo.ExistsByEmail(context.Background(), "owner@example.com")
			if err != nil {
				t.Fatalf("ExistsByEmail() error = %v", err)
			}

			if exists != tc.exists {
				t.Errorf("ExistsByEmail() = %v, want %v", exists, tc.exists)
			}
		})
	}
}

func TestUserRepository_Overview(t *testing.T) {
	repo, mock := newUserRepoMock(t)
	ctx := context.Background()

	columns := []string{"user_id", "email", "project_count", "audit_count", "average_score"}
	mock.ExpectQuery("SELECT (.+) FROM users u").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("user-1", "owner@example.com", 2, 14, 81.5).
			AddRow("user-2", "new@example.com", 0, 0, nil))

	rows, err := repo.Overview(ctx)
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if rows[0].AuditCount != 14 || rows[0].AverageScore == nil || *rows[0].AverageScore != 81.5 {
		t.Errorf("unexpected first row: %+v", rows[0])
	}

	if rows[1].AverageScore != nil {
		t.Errorf("expected nil average for user without audits, got %v", *rows[1].AverageScore)
	}
}

func TestUserRepository_Overview_Empty(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectQuery("SELECT (.+) FROM users u").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "project_count", "audit_count", "average_score"}))

	rows, err := repo.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}

	if rows == nil || len(rows) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", rows)
	}
}
