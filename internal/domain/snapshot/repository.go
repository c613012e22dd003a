package snapshot

import "context"

// Repository exposes snapshot persistence and the lookup the fetch scheduler
// uses to dedupe re-fetches of an unchanged page via content hash.
type Repository interface {
	Create(ctx context.Context, s Snapshot) (Snapshot, error)
	GetLatestByURL(ctx context.Context, sourceSlug, url string) (Snapshot, bool, error)
	ListUnparsed(ctx context.Context, sourceSlug string, limit int) ([]Snapshot, error)
	MarkParsed(ctx context.Context, id string, parseErr error) error
}
