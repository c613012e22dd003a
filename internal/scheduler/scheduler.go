// Package scheduler drives the cron-timed fan-out of fetch work for every
// enabled source, handing dispatches to the durable job_dispatches queue
// and, where configured, an external JobQueue that triggers the worker
// pool over HTTP instead of in-process polling.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/robfig/cron/v3"

	"github.com/pickline/aggregator/internal/domain/jobdispatch"
	"github.com/pickline/aggregator/internal/domain/source"
	"github.com/pickline/aggregator/internal/platform/logging"
)

type Config struct {
	LeaseTTL     time.Duration
	LeaseRenewal time.Duration
	MaxAttempts  int
}

func DefaultConfig() Config {
	return Config{
		LeaseTTL:     30 * time.Second,
		LeaseRenewal: 10 * time.Second,
		MaxAttempts:  5,
	}
}

// Scheduler owns one robfig/cron instance holding an entry per enabled
// source's CronExpr and turns each tick into a discover_urls dispatch.
type Scheduler struct {
	sources    source.Repository
	dispatches jobdispatch.Repository
	queue      JobQueue
	lease      *Lease
	cfg        Config
	logger     *logging.Logger
	cron       *cron.Cron
}

func New(sources source.Repository, dispatches jobdispatch.Repository, queue JobQueue, lease *Lease, cfg Config, logger *logging.Logger) *Scheduler {
	return &Scheduler{
		sources:    sources,
		dispatches: dispatches,
		queue:      queue,
		lease:      lease,
		cfg:        cfg,
		logger:     logger,
		cron:       cron.New(cron.WithSeconds()),
	}
}

// Start registers one cron entry per enabled source and begins the lease
// renewal loop. It returns once the initial source list has been loaded
// and scheduled; the cron loop itself runs until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	sources, err := s.sources.ListEnabled(ctx)
	if err != nil {
		return fmt.Errorf("scheduler: list enabled sources: %w", err)
	}

	for _, src := range sources {
		src := src
		if _, err := s.cron.AddFunc(src.CronExpr, func() {
			s.tick(context.Background(), src)
		}); err != nil {
			s.logger.Warn("scheduler: invalid cron expression, source skipped",
				"source_slug", src.Slug, "cron_expr", src.CronExpr, "error", err)
			continue
		}
	}

	s.cron.Start()
	go s.holdLease(ctx)
	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) tick(ctx context.Context, src source.Source) {
	if s.lease != nil {
		held, err := s.lease.Renew(ctx)
		if err != nil {
			s.logger.Warn("scheduler: lease renewal failed, skipping tick", "error", err)
			return
		}
		if !held {
			return // another replica holds the lease this cycle
		}
	}

	payload, err := sonic.Marshal(map[string]string{"source_slug": src.Slug, "base_url": src.BaseURL})
	if err != nil {
		s.logger.Error("scheduler: marshal discover payload", "source_slug", src.Slug, "error", err)
		return
	}

	dispatch := jobdispatch.Dispatch{
		Kind:        jobdispatch.KindDiscoverURLs,
		SourceSlug:  src.Slug,
		Payload:     string(payload),
		Status:      jobdispatch.StatusPending,
		MaxAttempts: s.cfg.MaxAttempts,
		ScheduledAt: time.Now().UTC(),
	}
	created, err := s.dispatches.Create(ctx, dispatch)
	if err != nil {
		s.logger.Error("scheduler: create discover dispatch", "source_slug", src.Slug, "error", err)
		return
	}

	if s.queue != nil {
		if err := s.queue.Enqueue(ctx, "/internal/jobs/discover", map[string]string{
			"dispatch_id": created.ID,
			"source_slug": src.Slug,
		}, 0, created.ID); err != nil {
			s.logger.Warn("scheduler: enqueue discover job", "source_slug", src.Slug, "error", err)
		}
	}
}

func (s *Scheduler) holdLease(ctx context.Context) {
	if s.lease == nil {
		return
	}
	ticker := time.NewTicker(s.cfg.LeaseRenewal)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = s.lease.Release(context.Background())
			return
		case <-ticker.C:
			if _, err := s.lease.Renew(ctx); err != nil {
				s.logger.Warn("scheduler: lease renewal error", "error", err)
			}
		}
	}
}
