package domain

import (
	"time"
)

// Project groups audits under one site owned by a user.
type Project struct {
	ID          string    `db:"id"           json:"id"`
	UserID      string    `db:"user_id"      json:"user_id"`
	Name        string    `db:"name"         json:"name"`
	BaseURL     string    `db:"base_url"     json:"base_url"`
	NotifyEmail *string   `db:"notify_email" json:"notify_email,omitempty"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
}

// User is an account that owns projects and schedules.
type User struct {
	ID           string    `db:"id"            json:"id"`
	Email        string    `db:"email"         json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
}

// UserOverview is the admin rollup of one user's activity. AverageScore is
// nil for users whose projects have no scored audits.
type UserOverview struct {
	UserID       string   `db:"user_id"       json:"user_id"`
	Email        string   `db:"email"         json:"email"`
	ProjectCount int      `db:"project_count" json:"project_count"`
	AuditCount   int      `db:"audit_count"   json:"audit_count"`
	AverageScore *float64 `db:"average_score" json:"average_score"`
}
