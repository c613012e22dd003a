package postgres

import (
	"database/sql"
	"time"
)

type jobDispatchTableModel struct {
	ID          int64          `db:"id"`
	PublicID    string         `db:"public_id"`
	Kind        string         `db:"kind"`
	SourceSlug  string         `db:"source_slug"`
	Payload     string         `db:"payload"`
	Status      string         `db:"status"`
	Attempts    int            `db:"attempts"`
	MaxAttempts int            `db:"max_attempts"`
	LastError   sql.NullString `db:"last_error"`
	ScheduledAt time.Time      `db:"scheduled_at"`
	StartedAt   sql.NullTime   `db:"started_at"`
	FinishedAt  sql.NullTime   `db:"finished_at"`
	NextRetryAt sql.NullTime   `db:"next_retry_at"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

type jobDispatchInsertModel struct {
	PublicID    string    `db:"public_id"`
	Kind        string    `db:"kind"`
	SourceSlug  string    `db:"source_slug"`
	Payload     string    `db:"payload"`
	Status      string    `db:"status"`
	Attempts    int       `db:"attempts"`
	MaxAttempts int       `db:"max_attempts"`
	ScheduledAt time.Time `db:"scheduled_at"`
}
