package domain

import (
	"time"
)

// Schedule is a recurring audit definition. Weekday follows the matcher's
// convention of Monday=0 through Sunday=6; hour and minute are UTC.
type Schedule struct {
	ID        string     `db:"id"          json:"id"`
	ProjectID string     `db:"project_id"  json:"project_id"`
	UserID    string     `db:"user_id"     json:"user_id"`
	URL       string     `db:"url"         json:"url"`
	Weekday   int        `db:"weekday"     json:"weekday"`
	HourUTC   int        `db:"hour_utc"    json:"hour_utc"`
	MinuteUTC int        `db:"minute_utc"  json:"minute_utc"`
	Enabled   bool       `db:"enabled"     json:"enabled"`
	LastRunAt *time.Time `db:"last_run_at" json:"last_run_at,omitempty"`
	CreatedAt time.Time  `db:"created_at"  json:"created_at"`
}
