package postgres

import (
	"database/sql"
	"time"
)

type snapshotTableModel struct {
	ID            int64          `db:"id"`
	PublicID      string         `db:"public_id"`
	SourceSlug    string         `db:"source_slug"`
	URL           string         `db:"url"`
	FetchedAt     time.Time      `db:"fetched_at"`
	Status        string         `db:"status"`
	HTTPStatus    int            `db:"http_status"`
	ContentHash   string         `db:"content_hash"`
	StoragePath   string         `db:"storage_path"`
	ContentLength int            `db:"content_length"`
	ParsedAt      sql.NullTime   `db:"parsed_at"`
	ParseError    sql.NullString `db:"parse_error"`
	CreatedAt     time.Time      `db:"created_at"`
}

type snapshotInsertModel struct {
	PublicID      string    `db:"public_id"`
	SourceSlug    string    `db:"source_slug"`
	URL           string    `db:"url"`
	FetchedAt     time.Time `db:"fetched_at"`
	Status        string    `db:"status"`
	HTTPStatus    int       `db:"http_status"`
	ContentHash   string    `db:"content_hash"`
	StoragePath   string    `db:"storage_path"`
	ContentLength int       `db:"content_length"`
}
