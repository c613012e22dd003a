package scheduler

import (
	"context"
	"time"

	"github.com/pickline/aggregator/internal/platform/logging"
)

// JobQueue hands a dispatch off to whatever executes it — a local worker
// pool, or a remote HTTP-triggered queue such as QStash.
type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

// NoopJobQueue logs the would-be enqueue and returns immediately; it backs
// deployments where the worker pool claims dispatches directly from
// Postgres instead of being triggered over HTTP.
type NoopJobQueue struct {
	logger *logging.Logger
}

func NewNoopJobQueue(logger *logging.Logger) *NoopJobQueue {
	return &NoopJobQueue{logger: logger}
}

func (q *NoopJobQueue) Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error {
	q.logger.Debug("noop job queue enqueue", "path", path, "delay", delay.String(), "dedup_id", deduplicationID)
	return nil
}
