package source

import (
	"context"
	"time"
)

// Repository exposes source configuration and health-tracking persistence.
type Repository interface {
	ListEnabled(ctx context.Context) ([]Source, error)
	GetBySlug(ctx context.Context, slug string) (Source, bool, error)
	UpsertMany(ctx context.Context, items []Source) error
	RecordFetchSuccess(ctx context.Context, slug string, at time.Time) error
	RecordFetchError(ctx context.Context, slug string, at time.Time, message string) error
}

// AccuracyRepository exposes the rolling accuracy stats used by scoring.
type AccuracyRepository interface {
	UpsertStats(ctx context.Context, items []AccuracyStat) error
	ListBySlugs(ctx context.Context, slugs []string, windowDays int) ([]AccuracyStat, error)
	History(ctx context.Context, slug string, windowDays int, limit int) ([]AccuracyStat, error)
}
