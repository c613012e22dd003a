package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/google/uuid"

	"github.com/pickline/aggregator/internal/domain/match"
	qb "github.com/pickline/aggregator/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) ListBySportAndDateRange(ctx context.Context, sport string, from, to string) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("sport", sport),
			qb.Expr("start_time >= ?::timestamptz", from),
			qb.Expr("start_time < ?::timestamptz", to),
		).
		OrderBy("start_time").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by sport/date query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches by sport/date: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}
	return matchFromRow(row), true, nil
}

// FindOrCreate resolves a match's natural key (sport, home team, away
// team, calendar date) to a stable row. The natural key is expressed as a
// generated UUIDv5 over that tuple rather than a composite unique
// constraint, so the same identity function can be used both server-side
// (this insert) and for idempotent retries from the caller.
func (r *MatchRepository) FindOrCreate(ctx context.Context, candidate match.Match) (match.Match, error) {
	if err := candidate.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("find or create match: %w", err)
	}

	publicID := matchIdentityID(candidate)

	model := matchInsertModel{
		PublicID:     publicID,
		Sport:        candidate.Sport,
		HomeTeamID:   toNullString(candidate.HomeTeamID),
		AwayTeamID:   toNullString(candidate.AwayTeamID),
		HomeTeamName: candidate.HomeTeamName,
		AwayTeamName: candidate.AwayTeamName,
		StartTime:    candidate.StartTime,
		Status:       string(candidate.Status),
	}
	query, args, err := qb.InsertModel("matches", model, `ON CONFLICT (public_id)
DO UPDATE SET
    home_team_public_id = COALESCE(matches.home_team_public_id, EXCLUDED.home_team_public_id),
    away_team_public_id = COALESCE(matches.away_team_public_id, EXCLUDED.away_team_public_id),
    updated_at = now()
RETURNING *`)
	if err != nil {
		return match.Match{}, fmt.Errorf("build find or create match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return match.Match{}, fmt.Errorf("find or create match public_id=%s: %w", publicID, err)
	}
	return matchFromRow(row), nil
}

func (r *MatchRepository) UpdateStatus(ctx context.Context, matchID string, status match.Status) error {
	query, args, err := qb.Update("matches").
		Set("status", string(status)).
		SetExpr("updated_at", "now()").
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match status query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update match status id=%s: %w", matchID, err)
	}
	return nil
}

// matchIdentityID derives a stable public ID from a match's natural key so
// repeated normalization passes over the same pick resolve to one row
// without a round trip to check existence first.
func matchIdentityID(m match.Match) string {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	key := fmt.Sprintf("%s|%s|%s|%s", m.Sport, m.HomeTeamName, m.AwayTeamName, m.DateKey())
	if m.HomeTeamID != "" && m.AwayTeamID != "" {
		key = fmt.Sprintf("%s|%s|%s|%s", m.Sport, m.HomeTeamID, m.AwayTeamID, m.DateKey())
	}
	return uuid.NewSHA1(namespace, []byte(key)).String()
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:           row.PublicID,
		Sport:        row.Sport,
		HomeTeamID:   nullStringToString(row.HomeTeamID),
		AwayTeamID:   nullStringToString(row.AwayTeamID),
		HomeTeamName: row.HomeTeamName,
		AwayTeamName: row.AwayTeamName,
		StartTime:    row.StartTime,
		Status:       match.Status(row.Status),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
