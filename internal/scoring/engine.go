package scoring

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sourcegraph/conc/pool"

	"github.com/pickline/aggregator/internal/platform/cache"
	"github.com/pickline/aggregator/internal/platform/logging"
)

const (
	topPicksThreshold  = 30
	bestMultisThreshold = 50
	groupBatchSize      = 10

	// ResultCacheTTL and TrackRecordCacheTTL are the TTLs the engine's
	// result cache and a GroupLoader's source-accuracy cache should be
	// constructed with, per the scoring engine's caching contract.
	ResultCacheTTL      = 5 * time.Minute
	TrackRecordCacheTTL = 30 * time.Minute
)

// GroupLoader resolves the per-match supporting data (source track
// records, form, head-to-head, venue split) the factor functions need,
// kept behind an interface so the engine stays free of SQL.
type GroupLoader interface {
	LoadGroups(ctx context.Context, sport, date string) ([]MatchGroup, error)
}

// Engine computes and caches ranked composite scores over match groups.
type Engine struct {
	loader GroupLoader
	cache  *cache.Store
	logger *logging.Logger
}

func NewEngine(loader GroupLoader, resultCache *cache.Store, logger *logging.Logger) *Engine {
	return &Engine{loader: loader, cache: resultCache, logger: logger}
}

// View selects which HTTP endpoint's shape and threshold to apply.
type View string

const (
	ViewTopPicks   View = "top-picks"
	ViewBestMultis View = "best-multis"
)

// TopPicks returns the flat top-N list sorted by composite score
// descending, applying the top-picks threshold (30).
func (e *Engine) TopPicks(ctx context.Context, sport, date string, limit int) ([]ScoredMatch, error) {
	all, err := e.scoreAll(ctx, sport, date, ViewTopPicks, limit)
	if err != nil {
		return nil, err
	}
	out := make([]ScoredMatch, 0, len(all))
	for _, m := range all {
		if m.Score >= topPicksThreshold {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// BestMultis groups qualifying matches (score ≥ 50) by date.
func (e *Engine) BestMultis(ctx context.Context, sport, date string) (map[string][]ScoredMatch, error) {
	all, err := e.scoreAll(ctx, sport, date, ViewBestMultis, 0)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string][]ScoredMatch)
	for _, m := range all {
		if m.Score < bestMultisThreshold {
			continue
		}
		key := m.GameDate.UTC().Format("2006-01-02")
		byDate[key] = append(byDate[key], m)
	}
	return byDate, nil
}

func (e *Engine) scoreAll(ctx context.Context, sport, date string, view View, limit int) ([]ScoredMatch, error) {
	cacheKey := resultCacheKey(sport, date, view, limit)
	if cached, ok := e.cache.Get(ctx, cacheKey); ok {
		if scored, ok := cached.([]ScoredMatch); ok {
			return scored, nil
		}
	}

	groups, err := e.loader.LoadGroups(ctx, sport, date)
	if err != nil {
		return nil, fmt.Errorf("scoring: load groups for %s/%s: %w", sport, date, err)
	}

	scored := make([]ScoredMatch, 0, len(groups))
	for start := 0; start < len(groups); start += groupBatchSize {
		end := start + groupBatchSize
		if end > len(groups) {
			end = len(groups)
		}
		batch := groups[start:end]

		p := pool.NewWithResults[*ScoredMatch]().WithContext(ctx).WithMaxGoroutines(groupBatchSize)
		for _, g := range batch {
			g := g
			p.Go(func(_ context.Context) (*ScoredMatch, error) {
				now := time.Now().UTC()
				m, ok := Compute(g)
				if !ok {
					return nil, nil
				}
				m.ComputedAt = now
				return &m, nil
			})
		}
		results, err := p.Wait()
		if err != nil {
			return nil, fmt.Errorf("scoring: batch compute: %w", err)
		}
		for _, m := range results {
			if m != nil {
				scored = append(scored, *m)
			}
		}
	}

	sort.Slice(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	e.cache.Set(ctx, cacheKey, scored)
	return scored, nil
}

// InvalidateScope drops every cached result for a sport/date, the SCAN-delete
// equivalent over the `prefix:sport:date:*` keyspace, called after new
// predictions land for that scope.
func (e *Engine) InvalidateScope(ctx context.Context, sport, date string) {
	e.cache.DeletePrefix(ctx, fmt.Sprintf("scoring:%s:%s:", sport, date))
}

func resultCacheKey(sport, date string, view View, limit int) string {
	return fmt.Sprintf("scoring:%s:%s:%s:%d", sport, date, view, limit)
}

// ETag returns the content hash of a serialized result set for HTTP
// conditional-request support.
func ETag(v any) (string, error) {
	body, err := sonic.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("scoring: marshal for etag: %w", err)
	}
	sum := md5.Sum(body)
	return hex.EncodeToString(sum[:]), nil
}
