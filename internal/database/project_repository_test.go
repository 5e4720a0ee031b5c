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

var projectColumns = []string{"id", "user_id", "name", "base_url", "notify_email", "created_at"}

func newProjectRepoMock(t *testing.T) (*database.ProjectRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "postgres")
	return database.NewProjectRepository(db), mock
}

func TestProjectRepository_Create(t *testing.T) {
	repo, mock := newProjectRepoMock(t)
	ctx := context.Background()

	createdAt := time.Now()
	mock.ExpectQuery("INSERT INTO projects").
		WithArgs("project-1", "user-1", "My Site", "https://example.com", nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	project := &domain.Project{
		ID:      "project-1",
		UserID:  "user-1",
		Name:    "My Site",
		BaseURL: "https://example.com",
	}

	if err := repo.Create(ctx, project); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if !project.CreatedAt.Equal(createdAt) {
		t.Errorf("expected created_at %v, got %v", createdAt, project.CreatedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestProjectRepository_GetOwned(t *testing.T) {
	repo, mock := newProjectRepoMock(t)
	ctx := context.Background()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM projects").
		WithArgs("project-1", "user-1").
		WillReturnRows(sqlmock.NewRows(projectColumns).
			AddRow("project-1", "user-1", "My Site", "https://example.com", nil, now))

	project, err := repo.GetOwned(ctx, "project-1", "user-1")
	if err != nil {
		t.Fatalf("GetOwned() error = %v", err)
	}

	if project.Name != "My Site" {
		t.Errorf("expected name 'My Site', got %q", project.Name)
	}
	if project.NotifyEmail != nil {
		t.Errorf("expected nil notify_email, got %v", *project.NotifyEmail)
	}
}

func TestProjectRepository_GetOwned_OtherUser(t *testing.T) {
	repo, mock := newProjectRepoMock(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM projects").
		WithArgs("project-1", "intruder").
		WillReturnRows(sqlmock.NewRows(projectColumns))

	_, err := repo.GetOwned(ctx, "project-1", "intruder")
	if !errors.Is(err, database.ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestProjectRepository_ListByUser(t *testing.T) {
	repo, mock := newProjectRepoMock(t)
	ctx := context.Background()

	now := time.Now()
	email := "owner@example.com"
	mock.ExpectQuery("SELECT (.+) FROM projects").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(projectColumns).
			AddRow("project-2", "user-1", "Newer", "https://b.example.com", email, now).
			AddRow("project-1", "user-1", "Older", "https://a.example.com", nil, now.Add(-time.Hour)))

	projects, err := repo.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}

	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	if projects[0].Name != "Newer" {
		t.Errorf("expected newest project first, got %q", projects[0].Name)
	}
	if projects[0].NotifyEmail == nil || *projects[0].NotifyEmail != email {
		t.Errorf("unexpected notify_email: %v", projects[0].NotifyEmail)
	}
}

func TestProjectRepository_ListByUser_Empty(t *testing.T) {
	repo, mock := newProjectRepoMock(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM projects").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(projectColumns))

	projects, err := repo.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}

	if projects == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(projects) != 0 {
		t.Errorf("expected no projects, got %d", len(projects))
	}
}
