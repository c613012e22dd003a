package postgres

import (
	"database/sql"
	"time"
)

type matchTableModel struct {
	ID           int64          `db:"id"`
	PublicID     string         `db:"public_id"`
	Sport        string         `db:"sport"`
	HomeTeamID   sql.NullString `db:"home_team_public_id"`
	AwayTeamID   sql.NullString `db:"away_team_public_id"`
	HomeTeamName string         `db:"home_team_name"`
	AwayTeamName string         `db:"away_team_name"`
	StartTime    time.Time      `db:"start_time"`
	Status       string         `db:"status"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

type matchInsertModel struct {
	PublicID     string         `db:"public_id"`
	Sport        string         `db:"sport"`
	HomeTeamID   sql.NullString `db:"home_team_public_id"`
	AwayTeamID   sql.NullString `db:"away_team_public_id"`
	HomeTeamName string         `db:"home_team_name"`
	AwayTeamName string         `db:"away_team_name"`
	StartTime    time.Time      `db:"start_time"`
	Status       string         `db:"status"`
}
