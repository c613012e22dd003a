package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pickline/aggregator/internal/domain/matchresult"
	qb "github.com/pickline/aggregator/internal/platform/querybuilder"
)

type MatchResultRepository struct {
	db *sqlx.DB
}

func NewMatchResultRepository(db *sqlx.DB) *MatchResultRepository {
	return &MatchResultRepository{db: db}
}

func (r *MatchResultRepository) Upsert(ctx context.Context, result matchresult.Result) error {
	if err := result.Validate(); err != nil {
		return fmt.Errorf("upsert match result: %w", err)
	}

	model := matchResultInsertModel{
		MatchPublicID: result.MatchID,
		HomeScore:     result.HomeScore,
		AwayScore:     result.AwayScore,
		TotalPoints:   result.TotalPoints,
		Margin:        result.Margin,
		WinningSide:   result.WinningSide,
		SettledAt:     result.SettledAt,
	}
	query, args, err := qb.InsertModel("match_results", model, `ON CONFLICT (match_public_id)
DO UPDATE SET
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    total_points = EXCLUDED.total_points,
    margin = EXCLUDED.margin,
    winning_side = EXCLUDED.winning_side,
    settled_at = EXCLUDED.settled_at,
    updated_at = now()`)
	if err != nil {
		return fmt.Errorf("build upsert match result query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert match result match_id=%s: %w", result.MatchID, err)
	}
	return nil
}

func (r *MatchResultRepository) GetByMatchID(ctx context.Context, matchID string) (matchresult.Result, bool, error) {
	query, args, err := qb.Select("*").From("match_results").
		Where(qb.Eq("match_public_id", matchID)).
		ToSQL()
	if err != nil {
		return matchresult.Result{}, false, fmt.Errorf("build get match result query: %w", err)
	}

	var row matchResultTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return matchresult.Result{}, false, nil
		}
		return matchresult.Result{}, false, fmt.Errorf("get match result match_id=%s: %w", matchID, err)
	}
	return matchResultFromRow(row), true, nil
}

func (r *MatchResultRepository) ListUngradedSince(ctx context.Context, since string) ([]matchresult.Result, error) {
	query, args, err := qb.Select("match_results.*").From("match_results").
		Where(
			qb.Expr("settled_at >= ?::timestamptz", since),
			qb.Expr(`EXISTS (
    SELECT 1 FROM predictions
    WHERE predictions.match_public_id = match_results.match_public_id
      AND predictions.graded_at IS NULL
)`),
		).
		OrderBy("settled_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list ungraded match results query: %w", err)
	}

	var rows []matchResultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list ungraded match results: %w", err)
	}

	out := make([]matchresult.Result, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchResultFromRow(row))
	}
	return out, nil
}

func matchResultFromRow(row matchResultTableModel) matchresult.Result {
	return matchresult.Result{
		MatchID:     row.MatchPublicID,
		HomeScore:   row.HomeScore,
		AwayScore:   row.AwayScore,
		TotalPoints: row.TotalPoints,
		Margin:      row.Margin,
		WinningSide: row.WinningSide,
		SettledAt:   row.SettledAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
