// Package worker claims dispatches from the durable job_dispatches queue
// and runs the fetch, parse, and grade lifecycles inside a bounded
// goroutine pool.
package worker

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/pickline/aggregator/internal/adapter"
	"github.com/pickline/aggregator/internal/domain/jobdispatch"
	"github.com/pickline/aggregator/internal/domain/matchresult"
	"github.com/pickline/aggregator/internal/domain/snapshot"
	"github.com/pickline/aggregator/internal/domain/source"
	"github.com/pickline/aggregator/internal/fetch"
	"github.com/pickline/aggregator/internal/grading"
	"github.com/pickline/aggregator/internal/normalize"
	"github.com/pickline/aggregator/internal/platform/logging"
	"github.com/pickline/aggregator/internal/snapshotstore"
)

type Config struct {
	Concurrency  int
	PollInterval time.Duration
	ClaimBatch   int
	BaseBackoff  time.Duration
	MaxBackoff   time.Duration
	UserAgent    string
}

func DefaultConfig() Config {
	return Config{
		Concurrency:  16,
		PollInterval: 2 * time.Second,
		ClaimBatch:   10,
		BaseBackoff:  5 * time.Second,
		MaxBackoff:   10 * time.Minute,
	}
}

// Pool polls jobdispatch.Repository for claimable work and executes it
// through a bounded ants goroutine pool, one job type's handler dispatched
// per dispatch.Kind.
type Pool struct {
	cfg         Config
	dispatches  jobdispatch.Repository
	sources     source.Repository
	snapshots   snapshot.Repository
	results     matchresult.Repository
	store       *snapshotstore.Store
	fetcher     *fetch.Dispatcher
	rateLimiter *fetch.RateLimiter
	robots      *fetch.RobotsGate
	adapters    *adapter.Registry
	normalizer  *normalize.Normalizer
	grader      *grading.Grader
	logger      *logging.Logger
	gopool      *ants.Pool
}

func New(
	cfg Config,
	dispatches jobdispatch.Repository,
	sources source.Repository,
	snapshots snapshot.Repository,
	results matchresult.Repository,
	store *snapshotstore.Store,
	fetcher *fetch.Dispatcher,
	rateLimiter *fetch.RateLimiter,
	robots *fetch.RobotsGate,
	adapters *adapter.Registry,
	normalizer *normalize.Normalizer,
	grader *grading.Grader,
	logger *logging.Logger,
) (*Pool, error) {
	gopool, err := ants.NewPool(cfg.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("worker: create goroutine pool: %w", err)
	}
	return &Pool{
		cfg:         cfg,
		dispatches:  dispatches,
		sources:     sources,
		snapshots:   snapshots,
		results:     results,
		store:       store,
		fetcher:     fetcher,
		rateLimiter: rateLimiter,
		robots:      robots,
		adapters:    adapters,
		normalizer:  normalizer,
		grader:      grader,
		logger:      logger,
		gopool:      gopool,
	}, nil
}

var claimableKinds = []jobdispatch.Kind{
	jobdispatch.KindDiscoverURLs,
	jobdispatch.KindFetchPage,
	jobdispatch.KindParseSnapshot,
	jobdispatch.KindGradeMatch,
	jobdispatch.KindResync,
}

// Run polls for claimable dispatches until ctx is cancelled.
func (p *Pool) Run(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()
	defer p.gopool.Release()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.claimAndRun(ctx)
		}
	}
}

func (p *Pool) claimAndRun(ctx context.Context) {
	batch, err := p.dispatches.ClaimNextBatch(ctx, claimableKinds, p.cfg.ClaimBatch)
	if err != nil {
		p.logger.Error("worker: claim next batch", "error", err)
		return
	}
	for _, d := range batch {
		d := d
		if err := p.gopool.Submit(func() { p.run(ctx, d) }); err != nil {
			p.logger.Error("worker: submit dispatch to pool", "dispatch_id", d.ID, "error", err)
		}
	}
}

func (p *Pool) run(ctx context.Context, d jobdispatch.Dispatch) {
	var err error
	switch d.Kind {
	case jobdispatch.KindDiscoverURLs:
		err = p.handleDiscoverURLs(ctx, d)
	case jobdispatch.KindFetchPage:
		err = p.handleFetchPage(ctx, d)
	case jobdispatch.KindParseSnapshot:
		err = p.handleParseSnapshot(ctx, d)
	case jobdispatch.KindGradeMatch:
		err = p.handleGradeMatch(ctx, d)
	case jobdispatch.KindResync:
		err = p.handleResync(ctx, d)
	default:
		err = fmt.Errorf("worker: unknown dispatch kind %q", d.Kind)
	}

	if err == nil {
		if markErr := p.dispatches.MarkSucceeded(ctx, d.ID, time.Now().UTC()); markErr != nil {
			p.logger.Error("worker: mark succeeded", "dispatch_id", d.ID, "error", markErr)
		}
		return
	}

	p.logger.Warn("worker: dispatch failed", "dispatch_id", d.ID, "kind", string(d.Kind), "error", err)
	if d.Exhausted() {
		if markErr := p.dispatches.MarkDeadLetter(ctx, d.ID, err.Error()); markErr != nil {
			p.logger.Error("worker: mark dead letter", "dispatch_id", d.ID, "error", markErr)
		}
		return
	}
	next := time.Now().UTC().Add(backoffFor(d.Attempts, p.cfg.BaseBackoff, p.cfg.MaxBackoff))
	if markErr := p.dispatches.MarkFailed(ctx, d.ID, err.Error(), &next); markErr != nil {
		p.logger.Error("worker: mark failed", "dispatch_id", d.ID, "error", markErr)
	}
}

func backoffFor(attempts int, base, maxDelay time.Duration) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	delay := time.Duration(float64(base) * math.Pow(2, float64(attempts-1)))
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

func (p *Pool) handleDiscoverURLs(ctx context.Context, d jobdispatch.Dispatch) error {
	payload, err := decodePayload[discoverURLsPayload](d.Payload)
	if err != nil {
		return fmt.Errorf("decode discover payload: %w", err)
	}

	src, ok, err := p.sources.GetBySlug(ctx, payload.SourceSlug)
	if err != nil {
		return fmt.Errorf("load source %s: %w", payload.SourceSlug, err)
	}
	if !ok {
		return fmt.Errorf("source %s is not configured", payload.SourceSlug)
	}

	a, err := p.adapters.Get(src.Slug)
	if err != nil {
		return err
	}

	result, err := p.fetchGated(ctx, src, payload.BaseURL, "")
	if err != nil {
		return fmt.Errorf("fetch seed page %s: %w", payload.BaseURL, err)
	}

	urls, err := a.DiscoverURLs(ctx, result.Body, payload.BaseURL)
	if err != nil {
		return fmt.Errorf("discover urls from %s: %w", payload.BaseURL, err)
	}

	for _, u := range urls {
		body, err := encodePayload(fetchPagePayload{SourceSlug: src.Slug, URL: u})
		if err != nil {
			return fmt.Errorf("encode fetch_page payload: %w", err)
		}
		if _, err := p.dispatches.Create(ctx, jobdispatch.Dispatch{
			Kind:        jobdispatch.KindFetchPage,
			SourceSlug:  src.Slug,
			Payload:     body,
			Status:      jobdispatch.StatusPending,
			MaxAttempts: d.MaxAttempts,
			ScheduledAt: time.Now().UTC(),
		}); err != nil {
			return fmt.Errorf("create fetch_page dispatch for %s: %w", u, err)
		}
	}
	return nil
}

func (p *Pool) handleFetchPage(ctx context.Context, d jobdispatch.Dispatch) error {
	payload, err := decodePayload[fetchPagePayload](d.Payload)
	if err != nil {
		return fmt.Errorf("decode fetch_page payload: %w", err)
	}

	src, ok, err := p.sources.GetBySlug(ctx, payload.SourceSlug)
	if err != nil {
		return fmt.Errorf("load source %s: %w", payload.SourceSlug, err)
	}
	if !ok {
		return fmt.Errorf("source %s is not configured", payload.SourceSlug)
	}

	previous, hasPrevious, err := p.snapshots.GetLatestByURL(ctx, src.Slug, payload.URL)
	if err != nil {
		return fmt.Errorf("load previous snapshot for %s: %w", payload.URL, err)
	}

	etag := ""
	if hasPrevious {
		etag = previous.ContentHash
	}

	result, err := p.fetchGated(ctx, src, payload.URL, etag)
	if err != nil {
		_ = p.sources.RecordFetchError(ctx, src.Slug, time.Now().UTC(), err.Error())
		return fmt.Errorf("fetch page %s: %w", payload.URL, err)
	}
	_ = p.sources.RecordFetchSuccess(ctx, src.Slug, time.Now().UTC())

	status := snapshot.FetchStatusOK
	if result.NotModified {
		status = snapshot.FetchStatusNotModified
	}

	var storagePath, hash string
	contentLength := 0
	if !result.NotModified {
		storagePath, hash, err = p.store.Write(src.Slug, result.Body)
		if err != nil {
			return fmt.Errorf("write snapshot body: %w", err)
		}
		contentLength = len(result.Body)
	} else if hasPrevious {
		storagePath, hash = previous.StoragePath, previous.ContentHash
	}

	snap, err := p.snapshots.Create(ctx, snapshot.Snapshot{
		SourceSlug:    src.Slug,
		URL:           payload.URL,
		FetchedAt:     result.FetchedAt,
		Status:        status,
		HTTPStatus:    result.StatusCode,
		ContentHash:   hash,
		StoragePath:   storagePath,
		ContentLength: contentLength,
	})
	if err != nil {
		return fmt.Errorf("record snapshot for %s: %w", payload.URL, err)
	}

	if status != snapshot.FetchStatusOK {
		return nil
	}

	body, err := encodePayload(parseSnapshotPayload{
		SourceSlug:  src.Slug,
		SnapshotID:  snap.ID,
		URL:         snap.URL,
		StoragePath: snap.StoragePath,
	})
	if err != nil {
		return fmt.Errorf("encode parse_snapshot payload: %w", err)
	}
	if _, err := p.dispatches.Create(ctx, jobdispatch.Dispatch{
		Kind:        jobdispatch.KindParseSnapshot,
		SourceSlug:  src.Slug,
		Payload:     body,
		Status:      jobdispatch.StatusPending,
		MaxAttempts: d.MaxAttempts,
		ScheduledAt: time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("create parse_snapshot dispatch: %w", err)
	}
	return nil
}

func (p *Pool) handleParseSnapshot(ctx context.Context, d jobdispatch.Dispatch) error {
	payload, err := decodePayload[parseSnapshotPayload](d.Payload)
	if err != nil {
		return fmt.Errorf("decode parse_snapshot payload: %w", err)
	}

	a, err := p.adapters.Get(payload.SourceSlug)
	if err != nil {
		return err
	}

	body, err := p.store.Read(payload.StoragePath)
	if err != nil {
		return fmt.Errorf("read snapshot body: %w", err)
	}

	raws, parseErr := a.Parse(ctx, body, payload.URL)
	if parseErr != nil {
		_ = p.snapshots.MarkParsed(ctx, payload.SnapshotID, parseErr)
		return fmt.Errorf("parse snapshot %s: %w", payload.SnapshotID, parseErr)
	}

	for _, raw := range raws {
		if _, err := p.normalizer.Normalize(ctx, raw); err != nil {
			p.logger.Warn("worker: normalize prediction failed", "source_slug", payload.SourceSlug, "error", err)
		}
	}

	return p.snapshots.MarkParsed(ctx, payload.SnapshotID, nil)
}

func (p *Pool) handleGradeMatch(ctx context.Context, d jobdispatch.Dispatch) error {
	payload, err := decodePayload[gradeMatchPayload](d.Payload)
	if err != nil {
		return fmt.Errorf("decode grade_match payload: %w", err)
	}

	result, ok, err := p.results.GetByMatchID(ctx, payload.MatchID)
	if err != nil {
		return fmt.Errorf("load match result %s: %w", payload.MatchID, err)
	}
	if !ok {
		return fmt.Errorf("match result %s is not settled yet", payload.MatchID)
	}

	graded, err := p.grader.GradeMatch(ctx, result)
	if err != nil {
		return fmt.Errorf("grade match %s: %w", payload.MatchID, err)
	}
	p.logger.Info("worker: graded match", "match_id", payload.MatchID, "graded_count", graded)
	return nil
}

func (p *Pool) handleResync(ctx context.Context, d jobdispatch.Dispatch) error {
	payload, err := decodePayload[resyncPayload](d.Payload)
	if err != nil {
		return fmt.Errorf("decode resync payload: %w", err)
	}

	src, ok, err := p.sources.GetBySlug(ctx, payload.SourceSlug)
	if err != nil {
		return fmt.Errorf("load source %s: %w", payload.SourceSlug, err)
	}
	if !ok {
		return fmt.Errorf("source %s is not configured", payload.SourceSlug)
	}

	body, err := encodePayload(discoverURLsPayload{SourceSlug: src.Slug, BaseURL: src.BaseURL})
	if err != nil {
		return fmt.Errorf("encode discover_urls payload: %w", err)
	}
	_, err = p.dispatches.Create(ctx, jobdispatch.Dispatch{
		Kind:        jobdispatch.KindDiscoverURLs,
		SourceSlug:  src.Slug,
		Payload:     body,
		Status:      jobdispatch.StatusPending,
		MaxAttempts: d.MaxAttempts,
		ScheduledAt: time.Now().UTC(),
	})
	return err
}

func (p *Pool) fetchGated(ctx context.Context, src source.Source, url, etag string) (fetch.Result, error) {
	allowed, err := p.robots.Allowed(url)
	if err != nil {
		return fetch.Result{}, fmt.Errorf("robots check %s: %w", url, err)
	}
	if !allowed || src.RobotsDisallow {
		return fetch.Result{}, fmt.Errorf("fetch of %s is disallowed by robots.txt", url)
	}
	if err := p.rateLimiter.Wait(ctx, src.Slug, src.RateLimitPerMin); err != nil {
		return fetch.Result{}, fmt.Errorf("rate limit wait for %s: %w", src.Slug, err)
	}

	kind := fetch.KindHTTP
	if src.Kind == source.KindDynamic {
		kind = fetch.KindBrowser
	}
	return p.fetcher.Fetch(ctx, kind, url, etag)
}
