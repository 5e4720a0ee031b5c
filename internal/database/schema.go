package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Schema statements are idempotent so startup can run them unconditionally.
const (
	usersSchema = `
		CREATE TABLE IF NOT EXISTS users (
			id            VARCHAR(64)  PRIMARY KEY,
			email         VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)
	`

	projectsSchema = `
		CREATE TABLE IF NOT EXISTS projects (
			id           VARCHAR(64)  PRIMARY KEY,
			user_id      VARCHAR(64)  NOT NULL REFERENCES users(id),
			name         VARCHAR(100) NOT NULL,
			base_url     VARCHAR(500) NOT NULL,
			notify_email VARCHAR(255),
			created_at   TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)
	`

	auditsSchema = `
		CREATE TABLE IF NOT EXISTS audits (
			id              VARCHAR(64)  PRIMARY KEY,
			project_id      VARCHAR(64)  NOT NULL REFERENCES projects(id),
			url             VARCHAR(500) NOT NULL,
			status          VARCHAR(20)  NOT NULL,
			score           INTEGER,
			created_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			finished_at     TIMESTAMPTZ,
			issues          JSONB        NOT NULL DEFAULT '[]',
			recommendations JSONB        NOT NULL DEFAULT '[]',
			checklist       JSONB        NOT NULL DEFAULT '[]',
			metrics         JSONB        NOT NULL DEFAULT '{}',
			error           VARCHAR(1000)
		)
	`

	scheduledAuditsSchema = `
		CREATE TABLE IF NOT EXISTS scheduled_audits (
			id          VARCHAR(64)  PRIMARY KEY,
			project_id  VARCHAR(64)  NOT NULL REFERENCES projects(id),
			user_id     VARCHAR(64)  NOT NULL REFERENCES users(id),
			url         VARCHAR(500) NOT NULL,
			weekday     SMALLINT     NOT NULL,
			hour_utc    SMALLINT     NOT NULL,
			minute_utc  SMALLINT     NOT NULL,
			enabled     BOOLEAN      NOT NULL DEFAULT TRUE,
			last_run_at TIMESTAMPTZ,
			created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)
	`

	auditHistorySchema = `
		CREATE TABLE IF NOT EXISTS audit_history (
			id         BIGSERIAL   PRIMARY KEY,
			project_id VARCHAR(64) NOT NULL REFERENCES projects(id),
			timestamp  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			score      INTEGER     NOT NULL
		)
	`

	auditsProjectIndex = `
		CREATE INDEX IF NOT EXISTS idx_audits_project_created
		ON audits (project_id, created_at DESC)
	`

	auditHistoryProjectIndex = `
		CREATE INDEX IF NOT EXISTS idx_audit_history_project_timestamp
		ON audit_history (project_id, timestamp DESC)
	`
)

// schemaStatements are executed in order; tables before their indexes.
var schemaStatements = []string{
	usersSchema,
	projectsSchema,
	auditsSchema,
	scheduledAuditsSchema,
	auditHistorySchema,
	auditsProjectIndex,
	auditHistoryProjectIndex,
}

// InitSchema creates all tables and indexes if they do not exist yet.
func InitSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
