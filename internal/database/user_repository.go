package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/jonesrussell/goseo/internal/domain"
)

// ErrUserNotFound is returned when a user lookup matches no row.
// Callers should check with errors.Is().
var ErrUserNotFound = errors.New("user not found")

// UserRepository handles database operations for user accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.PasswordHash,
	).Scan(&user.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// ExistsByEmail reports whether a user with the given email is registered.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	err := r.db.GetContext(ctx, &exists, query, email)
	if err != nil {
		return false, fmt.Errorf("failed to check user email: %w", err)
	}

	return exists, nil
}

// Overview aggregates per-user activity for the admin endpoint: project and
// audit counts plus the average audit score. Users without audits carry a
// NULL average.
func (r *UserRepository) Overview(ctx context.Context) ([]domain.UserOverview, error) {
	var rows []domain.UserOverview
	query := `
		SELECT u.id AS user_id,
		       u.email,
		       COUNT(DISTINCT p.id) AS project_count,
		       COUNT(a.id) AS audit_count,
		       AVG(a.score) AS average_score
		FROM users u
		LEFT JOIN projects p ON p.user_id = u.id
		LEFT JOIN audits a ON a.project_id = p.id
		GROUP BY u.id, u.email, u.created_at
		ORDER BY u.created_at
	`

	err := r.db.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, fmt.Errorf("failed to build user overview: %w", err)
	}

	if rows == nil {
		rows = []domain.UserOverview{}
	}

	return rows, nil
}
