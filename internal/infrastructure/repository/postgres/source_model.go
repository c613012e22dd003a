package postgres

import (
	"database/sql"
	"time"
)

type sourceTableModel struct {
	ID              int64          `db:"id"`
	Slug            string         `db:"slug"`
	Name            string         `db:"name"`
	BaseURL         string         `db:"base_url"`
	Kind            string         `db:"kind"`
	CronExpr        string         `db:"cron_expr"`
	RateLimitPerMin int            `db:"rate_limit_per_min"`
	RobotsDisallow  bool           `db:"robots_disallow"`
	Enabled         bool           `db:"enabled"`
	LastFetchedAt   sql.NullTime   `db:"last_fetched_at"`
	LastErrorAt     sql.NullTime   `db:"last_error_at"`
	LastError       sql.NullString `db:"last_error"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

type sourceInsertModel struct {
	Slug            string `db:"slug"`
	Name            string `db:"name"`
	BaseURL         string `db:"base_url"`
	Kind            string `db:"kind"`
	CronExpr        string `db:"cron_expr"`
	RateLimitPerMin int    `db:"rate_limit_per_min"`
	RobotsDisallow  bool   `db:"robots_disallow"`
	Enabled         bool   `db:"enabled"`
}

type sourceAccuracyTableModel struct {
	ID           int64     `db:"id"`
	SourceSlug   string    `db:"source_slug"`
	WindowDays   int       `db:"window_days"`
	TotalGraded  int       `db:"total_graded"`
	TotalCorrect int       `db:"total_correct"`
	HitRatePct   float64   `db:"hit_rate_pct"`
	ComputedAt   time.Time `db:"computed_at"`
}

type sourceAccuracyInsertModel struct {
	SourceSlug   string    `db:"source_slug"`
	WindowDays   int       `db:"window_days"`
	TotalGraded  int       `db:"total_graded"`
	TotalCorrect int       `db:"total_correct"`
	HitRatePct   float64   `db:"hit_rate_pct"`
	ComputedAt   time.Time `db:"computed_at"`
}
