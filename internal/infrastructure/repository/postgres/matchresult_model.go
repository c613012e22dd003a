package postgres

import "time"

type matchResultTableModel struct {
	ID            int64     `db:"id"`
	MatchPublicID string    `db:"match_public_id"`
	HomeScore     int       `db:"home_score"`
	AwayScore     int       `db:"away_score"`
	TotalPoints   int       `db:"total_points"`
	Margin        int       `db:"margin"`
	WinningSide   string    `db:"winning_side"`
	SettledAt     time.Time `db:"settled_at"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type matchResultInsertModel struct {
	MatchPublicID string    `db:"match_public_id"`
	HomeScore     int       `db:"home_score"`
	AwayScore     int       `db:"away_score"`
	TotalPoints   int       `db:"total_points"`
	Margin        int       `db:"margin"`
	WinningSide   string    `db:"winning_side"`
	SettledAt     time.Time `db:"settled_at"`
}
