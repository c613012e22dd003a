package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pickline/aggregator/internal/domain/prediction"
	qb "github.com/pickline/aggregator/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) UpsertIgnoreDuplicate(ctx context.Context, p prediction.NormalizedPrediction) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, fmt.Errorf("upsert prediction: %w", err)
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	model := predictionInsertModel{
		PublicID:        p.ID,
		DedupKey:        p.DedupKey,
		SourceSlug:      p.SourceSlug,
		PickerName:      p.PickerName,
		MatchPublicID:   p.MatchID,
		PickType:        string(p.PickType),
		Side:            string(p.Side),
		Confidence:      p.Confidence,
		Commentary:      toNullString(p.Commentary),
		PublishedAt:     p.PublishedAt,
		ParlayLegIDs:    pq.StringArray(p.ParlayLegIDs),
	}
	if p.HasValue {
		model.Value.Float64, model.Value.Valid = p.Value, true
	}
	if p.PredictedHasVal {
		model.PredictedMargin.Float64, model.PredictedMargin.Valid = p.PredictedMargin, true
	}
	if p.HasOdds {
		model.Odds.Float64, model.Odds.Valid = p.Odds, true
	}

	query, args, err := qb.InsertModel("predictions", model, "ON CONFLICT (dedup_key) DO NOTHING RETURNING id")
	if err != nil {
		return false, fmt.Errorf("build insert prediction query: %w", err)
	}

	var insertedID int64
	if err := r.db.GetContext(ctx, &insertedID, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert prediction dedup_key=%s: %w", p.DedupKey, err)
	}
	return true, nil
}

func (r *PredictionRepository) ListByMatch(ctx context.Context, matchID string) ([]prediction.NormalizedPrediction, error) {
	return r.list(ctx, qb.Eq("match_public_id", matchID))
}

func (r *PredictionRepository) ListUngraded(ctx context.Context, matchID string) ([]prediction.NormalizedPrediction, error) {
	return r.list(ctx,
		qb.Eq("match_public_id", matchID),
		qb.IsNull("graded_at"),
	)
}

func (r *PredictionRepository) ListBySourceSince(ctx context.Context, sourceSlug string, since string, limit int) ([]prediction.NormalizedPrediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(
			qb.Eq("source_slug", sourceSlug),
			qb.Expr("published_at >= ?::timestamptz", since),
		).
		OrderBy("published_at DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions by source query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions by source %s: %w", sourceSlug, err)
	}
	return predictionsFromRows(rows), nil
}

func (r *PredictionRepository) RecordGrade(ctx context.Context, predictionID string, grade prediction.Grade, score float64) error {
	query, args, err := qb.Update("predictions").
		Set("grade", string(grade)).
		Set("score", score).
		SetExpr("graded_at", "now()").
		SetExpr("score_computed_at", "now()").
		Where(qb.Eq("public_id", predictionID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build record grade query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record grade for prediction %s: %w", predictionID, err)
	}
	return nil
}

func (r *PredictionRepository) UpdateScore(ctx context.Context, predictionID string, score float64) error {
	query, args, err := qb.Update("predictions").
		Set("score", score).
		SetExpr("score_computed_at", "now()").
		Where(qb.Eq("public_id", predictionID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update prediction score query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update score for prediction %s: %w", predictionID, err)
	}
	return nil
}

func (r *PredictionRepository) TopPicks(ctx context.Context, sport string, limit int) ([]prediction.NormalizedPrediction, error) {
	query, args, err := qb.Select("predictions.*").From("predictions").
		Where(
			qb.Expr("match_public_id IN (SELECT public_id FROM matches WHERE sport = ?)", sport),
			qb.Expr("score >= ?", 30.0),
		).
		OrderBy("score DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build top picks query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list top picks for sport %s: %w", sport, err)
	}
	return predictionsFromRows(rows), nil
}

func (r *PredictionRepository) BestMultis(ctx context.Context, sport string, limit int) ([]prediction.NormalizedPrediction, error) {
	query, args, err := qb.Select("predictions.*").From("predictions").
		Where(
			qb.Expr("match_public_id IN (SELECT public_id FROM matches WHERE sport = ?)", sport),
			qb.Eq("pick_type", string(prediction.PickParlay)),
			qb.Expr("score >= ?", 50.0),
		).
		OrderBy("score DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build best multis query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list best multis for sport %s: %w", sport, err)
	}
	return predictionsFromRows(rows), nil
}

func (r *PredictionRepository) ListFiltered(ctx context.Context, sport, date, sourceSlug string, limit int) ([]prediction.NormalizedPrediction, error) {
	conditions := make([]qb.Condition, 0, 3)
	table := "predictions"
	if sport != "" || date != "" {
		table = "predictions JOIN matches ON matches.public_id = predictions.match_public_id"
	}
	if sport != "" {
		conditions = append(conditions, qb.Eq("matches.sport", sport))
	}
	if date != "" {
		conditions = append(conditions,
			qb.Expr("matches.start_time >= ?::date", date),
			qb.Expr("matches.start_time < (?::date + interval '1 day')", date),
		)
	}
	if sourceSlug != "" {
		conditions = append(conditions, qb.Eq("predictions.source_slug", sourceSlug))
	}

	query, args, err := qb.Select("predictions.*").From(table).
		Where(conditions...).
		OrderBy("predictions.published_at DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list filtered predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list filtered predictions: %w", err)
	}
	return predictionsFromRows(rows), nil
}

func (r *PredictionRepository) Stats(ctx context.Context, sport string) ([]prediction.StatRow, error) {
	conditions := make([]qb.Condition, 0, 1)
	if sport != "" {
		conditions = append(conditions, qb.Eq("matches.sport", sport))
	}

	query, args, err := qb.Select(
		"matches.sport",
		"predictions.source_slug",
		"predictions.pick_type",
		"count(*) AS total",
	).From("predictions JOIN matches ON matches.public_id = predictions.match_public_id").
		Where(conditions...).
		GroupBy("matches.sport", "predictions.source_slug", "predictions.pick_type").
		OrderBy("total DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build prediction stats query: %w", err)
	}

	var rows []struct {
		Sport      string `db:"sport"`
		SourceSlug string `db:"source_slug"`
		PickType   string `db:"pick_type"`
		Total      int    `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list prediction stats: %w", err)
	}

	out := make([]prediction.StatRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, prediction.StatRow{
			Sport:      row.Sport,
			SourceSlug: row.SourceSlug,
			PickType:   prediction.PickType(row.PickType),
			Total:      row.Total,
		})
	}
	return out, nil
}

func (r *PredictionRepository) Accuracy(ctx context.Context, sport string, pickType prediction.PickType) (prediction.AccuracySummary, error) {
	conditions := make([]qb.Condition, 0, 2)
	table := "predictions"
	if sport != "" {
		table = "predictions JOIN matches ON matches.public_id = predictions.match_public_id"
		conditions = append(conditions, qb.Eq("matches.sport", sport))
	}
	if pickType != "" {
		conditions = append(conditions, qb.Eq("predictions.pick_type", string(pickType)))
	}

	query, args, err := qb.Select("predictions.grade", "count(*) AS total").From(table).
		Where(conditions...).
		GroupBy("predictions.grade").
		ToSQL()
	if err != nil {
		return prediction.AccuracySummary{}, fmt.Errorf("build accuracy query: %w", err)
	}

	var rows []struct {
		Grade sql.NullString `db:"grade"`
		Total int            `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return prediction.AccuracySummary{}, fmt.Errorf("list accuracy: %w", err)
	}

	var summary prediction.AccuracySummary
	for _, row := range rows {
		if !row.Grade.Valid {
			summary.Pending = row.Total
			continue
		}
		switch prediction.Grade(row.Grade.String) {
		case prediction.GradeWin:
			summary.Wins = row.Total
		case prediction.GradeLoss:
			summary.Losses = row.Total
		case prediction.GradePush:
			summary.Pushes = row.Total
		case prediction.GradeVoid:
			summary.Voids = row.Total
		}
	}
	return summary, nil
}

func (r *PredictionRepository) list(ctx context.Context, conditions ...qb.Condition) ([]prediction.NormalizedPrediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(conditions...).
		OrderBy("published_at DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select predictions: %w", err)
	}
	return predictionsFromRows(rows), nil
}

func predictionsFromRows(rows []predictionTableModel) []prediction.NormalizedPrediction {
	out := make([]prediction.NormalizedPrediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, predictionFromRow(row))
	}
	return out
}

func predictionFromRow(row predictionTableModel) prediction.NormalizedPrediction {
	p := prediction.NormalizedPrediction{
		ID:              row.PublicID,
		DedupKey:        row.DedupKey,
		SourceSlug:      row.SourceSlug,
		PickerName:      row.PickerName,
		MatchID:         row.MatchPublicID,
		PickType:        prediction.PickType(row.PickType),
		Side:            prediction.Side(row.Side),
		Confidence:      row.Confidence,
		Commentary:      nullStringToString(row.Commentary),
		PublishedAt:     row.PublishedAt,
		GradedAt:        nullTimeToTimePtr(row.GradedAt),
		ParlayLegIDs:    []string(row.ParlayLegIDs),
		Score:           row.Score,
		ScoreComputedAt: nullTimeToTimePtr(row.ScoreComputedAt),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if row.Value.Valid {
		p.Value, p.HasValue = row.Value.Float64, true
	}
	if row.PredictedMargin.Valid {
		p.PredictedMargin, p.PredictedHasVal = row.PredictedMargin.Float64, true
	}
	if row.Odds.Valid {
		p.Odds, p.HasOdds = row.Odds.Float64, true
	}
	if row.Grade.Valid {
		grade := prediction.Grade(row.Grade.String)
		p.Grade = &grade
	}
	return p
}
