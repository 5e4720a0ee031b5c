package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/jonesrussell/goseo/internal/domain"
)

// ErrProjectNotFound is returned when a project lookup matches no row.
// GetOwned also returns it for projects belonging to another user.
var ErrProjectNotFound = errors.New("project not found")

// projectSelectColumns lists columns for SELECT queries on projects.
const projectSelectColumns = `id, user_id, name, base_url, notify_email, created_at`

// ProjectRepository handles database operations for projects.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project.
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	query := `
		INSERT INTO projects (id, user_id, name, base_url, notify_email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		project.ID,
		project.UserID,
		project.Name,
		project.BaseURL,
		project.NotifyEmail,
	).Scan(&project.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// GetByID retrieves a project by its ID.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	var project domain.Project
	query := `SELECT ` + projectSelectColumns + ` FROM projects WHERE id = $1`

	err := r.db.GetContext(ctx, &project, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

// GetOwned retrieves a project only when it belongs to the given user.
// Not-found and not-owned are indistinguishable to the caller.
func (r *ProjectRepository) GetOwned(ctx context.Context, id, userID string) (*domain.Project, error) {
	var project domain.Project
	query := `SELECT ` + projectSelectColumns + ` FROM projects WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, &project, query, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

// ListByUser retrieves all projects owned by a user, newest first.
func (r *ProjectRepository) ListByUser(ctx context.Context, userID string) ([]domain.Project, error) {
	var projects []domain.Project
	query := `
		SELECT ` + projectSelectColumns + `
		FROM projects
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	err := r.db.SelectContext(ctx, &projects, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	if projects == nil {
		projects = []domain.Project{}
	}

	return projects, nil
}
