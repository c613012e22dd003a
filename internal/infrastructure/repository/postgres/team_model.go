package postgres

import "time"

type teamTableModel struct {
	ID           int64     `db:"id"`
	PublicID     string    `db:"public_id"`
	Sport        string    `db:"sport"`
	Name         string    `db:"name"`
	Abbreviation string    `db:"abbreviation"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type teamInsertModel struct {
	PublicID     string `db:"public_id"`
	Sport        string `db:"sport"`
	Name         string `db:"name"`
	Abbreviation string `db:"abbreviation"`
}

type teamAliasTableModel struct {
	ID     int64  `db:"id"`
	Sport  string `db:"sport"`
	Alias  string `db:"alias"`
	TeamID string `db:"team_public_id"`
}

type teamAliasInsertModel struct {
	Sport  string `db:"sport"`
	Alias  string `db:"alias"`
	TeamID string `db:"team_public_id"`
}
