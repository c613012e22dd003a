package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type predictionTableModel struct {
	ID              int64          `db:"id"`
	PublicID        string         `db:"public_id"`
	DedupKey        string         `db:"dedup_key"`
	SourceSlug      string         `db:"source_slug"`
	PickerName      string         `db:"picker_name"`
	MatchPublicID   string         `db:"match_public_id"`
	PickType        string         `db:"pick_type"`
	Side            string         `db:"side"`
	Value           sql.NullFloat64 `db:"value"`
	Confidence      float64        `db:"confidence"`
	PredictedMargin sql.NullFloat64 `db:"predicted_margin"`
	Odds            sql.NullFloat64 `db:"odds"`
	Commentary      sql.NullString `db:"commentary"`
	PublishedAt     time.Time      `db:"published_at"`
	GradedAt        sql.NullTime   `db:"graded_at"`
	Grade           sql.NullString `db:"grade"`
	ParlayLegIDs    pq.StringArray `db:"parlay_leg_ids"`
	Score           float64        `db:"score"`
	ScoreComputedAt sql.NullTime   `db:"score_computed_at"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

type predictionInsertModel struct {
	PublicID        string         `db:"public_id"`
	DedupKey        string         `db:"dedup_key"`
	SourceSlug      string         `db:"source_slug"`
	PickerName      string         `db:"picker_name"`
	MatchPublicID   string         `db:"match_public_id"`
	PickType        string         `db:"pick_type"`
	Side            string         `db:"side"`
	Value           sql.NullFloat64 `db:"value"`
	Confidence      float64        `db:"confidence"`
	PredictedMargin sql.NullFloat64 `db:"predicted_margin"`
	Odds            sql.NullFloat64 `db:"odds"`
	Commentary      sql.NullString `db:"commentary"`
	PublishedAt     time.Time      `db:"published_at"`
	ParlayLegIDs    pq.StringArray `db:"parlay_leg_ids"`
}
