package jobdispatch

import (
	"context"
	"time"
)

// Repository exposes the dispatch audit trail and work-queue operations
// backing the scheduler and worker pool.
type Repository interface {
	Create(ctx context.Context, d Dispatch) (Dispatch, error)
	// ClaimNextBatch atomically claims up to limit pending/retry-ready
	// dispatches of the given kinds, marking them Running, the way a
	// durable work queue hands work to competing workers without double
	// delivery.
	ClaimNextBatch(ctx context.Context, kinds []Kind, limit int) ([]Dispatch, error)
	MarkSucceeded(ctx context.Context, id string, finishedAt time.Time) error
	MarkFailed(ctx context.Context, id string, errMsg string, nextRetryAt *time.Time) error
	MarkDeadLetter(ctx context.Context, id string, errMsg string) error
	ListRecent(ctx context.Context, sourceSlug string, limit int) ([]Dispatch, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
}
