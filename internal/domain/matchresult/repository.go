package matchresult

import "context"

// Repository exposes persistence for settled match outcomes.
type Repository interface {
	Upsert(ctx context.Context, r Result) error
	GetByMatchID(ctx context.Context, matchID string) (Result, bool, error)
	// ListUngradedSince returns results settled on or after `since` whose
	// matches still have ungraded predictions attached, driving the grading
	// loop's work queue without a full table scan.
	ListUngradedSince(ctx context.Context, since string) ([]Result, error)
}
