package usecase

import (
	"context"
	"fmt"

	"github.com/pickline/aggregator/internal/domain/jobdispatch"
	"github.com/pickline/aggregator/internal/domain/source"
)

// SourceHealth is one source's operator-facing status row.
type SourceHealth struct {
	Slug          string  `json:"slug"`
	Name          string  `json:"name"`
	Enabled       bool    `json:"enabled"`
	LastFetchedAt *string `json:"last_fetched_at,omitempty"`
	LastErrorAt   *string `json:"last_error_at,omitempty"`
	LastError     string  `json:"last_error,omitempty"`
	HitRatePct    float64 `json:"hit_rate_pct"`
	TotalGraded   int     `json:"total_graded"`
}

// Dashboard is the full operator-facing health summary.
type Dashboard struct {
	Sources       []SourceHealth `json:"sources"`
	PendingJobs   int            `json:"pending_jobs"`
	FailedJobs    int            `json:"failed_jobs"`
	DeadLetterJobs int           `json:"dead_letter_jobs"`
}

// DashboardService aggregates per-source last-fetch time, last fetch error,
// and accuracy, plus job-queue counts by status, into one read model for
// the operator-facing dashboard endpoint,
// the natural generalization of an ingestion-status dashboard to this
// system's fetch/parse pipeline.
type DashboardService struct {
	sources  source.Repository
	accuracy source.AccuracyRepository
	jobs     jobdispatch.Repository
	windowDays int
}

func NewDashboardService(sources source.Repository, accuracy source.AccuracyRepository, jobs jobdispatch.Repository, windowDays int) *DashboardService {
	if windowDays <= 0 {
		windowDays = 30
	}
	return &DashboardService{sources: sources, accuracy: accuracy, jobs: jobs, windowDays: windowDays}
}

func (d *DashboardService) Get(ctx context.Context) (Dashboard, error) {
	sources, err := d.sources.ListEnabled(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard: list sources: %w", err)
	}

	slugs := make([]string, len(sources))
	for i, s := range sources {
		slugs[i] = s.Slug
	}
	stats, err := d.accuracy.ListBySlugs(ctx, slugs, d.windowDays)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard: list accuracy stats: %w", err)
	}
	statBySlug := make(map[string]source.AccuracyStat, len(stats))
	for _, st := range stats {
		statBySlug[st.SourceSlug] = st
	}

	health := make([]SourceHealth, 0, len(sources))
	for _, s := range sources {
		row := SourceHealth{
			Slug:      s.Slug,
			Name:      s.Name,
			Enabled:   s.Enabled,
			LastError: s.LastError,
		}
		if s.LastFetchedAt != nil {
			formatted := s.LastFetchedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
			row.LastFetchedAt = &formatted
		}
		if s.LastErrorAt != nil {
			formatted := s.LastErrorAt.UTC().Format("2006-01-02T15:04:05Z07:00")
			row.LastErrorAt = &formatted
		}
		if st, ok := statBySlug[s.Slug]; ok {
			row.HitRatePct = st.HitRatePct
			row.TotalGraded = st.TotalGraded
		}
		health = append(health, row)
	}

	pending, err := d.jobs.CountByStatus(ctx, jobdispatch.StatusPending)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard: count pending jobs: %w", err)
	}
	failed, err := d.jobs.CountByStatus(ctx, jobdispatch.StatusFailed)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard: count failed jobs: %w", err)
	}
	deadLetter, err := d.jobs.CountByStatus(ctx, jobdispatch.StatusDeadLetter)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard: count dead letter jobs: %w", err)
	}

	return Dashboard{
		Sources:        health,
		PendingJobs:    pending,
		FailedJobs:     failed,
		DeadLetterJobs: deadLetter,
	}, nil
}
