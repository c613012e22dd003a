package prediction

import "context"

// Repository exposes normalized-prediction persistence.
type Repository interface {
	// UpsertIgnoreDuplicate inserts one prediction, doing nothing if a row
	// with the same dedup_key already exists (ON CONFLICT DO NOTHING), and
	// reports whether a new row was actually created.
	UpsertIgnoreDuplicate(ctx context.Context, p NormalizedPrediction) (created bool, err error)
	ListByMatch(ctx context.Context, matchID string) ([]NormalizedPrediction, error)
	ListUngraded(ctx context.Context, matchID string) ([]NormalizedPrediction, error)
	ListBySourceSince(ctx context.Context, sourceSlug string, since string, limit int) ([]NormalizedPrediction, error)
	RecordGrade(ctx context.Context, predictionID string, grade Grade, score float64) error
	UpdateScore(ctx context.Context, predictionID string, score float64) error
	TopPicks(ctx context.Context, sport string, limit int) ([]NormalizedPrediction, error)
	BestMultis(ctx context.Context, sport string, limit int) ([]NormalizedPrediction, error)

	// ListFiltered backs the raw predictions read endpoints, with sport/date
	// (calendar day, matched against the owning match's start_time)/source
	// all optional (empty string skips the filter).
	ListFiltered(ctx context.Context, sport, date, sourceSlug string, limit int) ([]NormalizedPrediction, error)
	// Stats returns one row per (sport, source, pick_type) combination with
	// a total count, the input to the /predictions/stats endpoint.
	Stats(ctx context.Context, sport string) ([]StatRow, error)
	// Accuracy summarizes graded outcomes for sport/pickType (either may be
	// empty to skip that filter).
	Accuracy(ctx context.Context, sport string, pickType PickType) (AccuracySummary, error)
}

// AccuracySummary is the win/loss/push/void/pending breakdown the
// /predictions/accuracy endpoint reports.
type AccuracySummary struct {
	Wins    int
	Losses  int
	Pushes  int
	Voids   int
	Pending int
}

// StatRow is one aggregation bucket returned by Stats.
type StatRow struct {
	Sport      string
	SourceSlug string
	PickType   PickType
	Total      int
}
