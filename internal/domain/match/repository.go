package match

import "context"

// Repository exposes match read/write operations needed by the normalizer,
// grader, and HTTP read surface.
type Repository interface {
	ListBySportAndDateRange(ctx context.Context, sport string, from, to string) ([]Match, error)
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	// FindOrCreate resolves the match identity (sport, home, away, date) to a
	// stable match row, creating one if this is the first time the pair has
	// been seen on this date.
	FindOrCreate(ctx context.Context, candidate Match) (Match, error)
	UpdateStatus(ctx context.Context, matchID string, status Status) error
}
