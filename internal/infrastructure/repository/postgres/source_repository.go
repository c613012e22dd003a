package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pickline/aggregator/internal/domain/source"
	qb "github.com/pickline/aggregator/internal/platform/querybuilder"
)

type SourceRepository struct {
	db *sqlx.DB
}

func NewSourceRepository(db *sqlx.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

func (r *SourceRepository) ListEnabled(ctx context.Context) ([]source.Source, error) {
	query, args, err := qb.Select("*").From("sources").
		Where(qb.Eq("enabled", true)).
		OrderBy("slug").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list enabled sources query: %w", err)
	}

	var rows []sourceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list enabled sources: %w", err)
	}

	out := make([]source.Source, 0, len(rows))
	for _, row := range rows {
		out = append(out, sourceFromRow(row))
	}
	return out, nil
}

func (r *SourceRepository) GetBySlug(ctx context.Context, slug string) (source.Source, bool, error) {
	query, args, err := qb.Select("*").From("sources").
		Where(qb.Eq("slug", slug)).
		ToSQL()
	if err != nil {
		return source.Source{}, false, fmt.Errorf("build get source by slug query: %w", err)
	}

	var row sourceTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return source.Source{}, false, nil
		}
		return source.Source{}, false, fmt.Errorf("get source by slug %s: %w", slug, err)
	}
	return sourceFromRow(row), true, nil
}

// UpsertMany reconciles the configured source list in one transaction so a
// partial write never leaves the fetch scheduler with half the roster.
func (r *SourceRepository) UpsertMany(ctx context.Context, items []source.Source) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert sources transaction: %w", err)
	}
	defer tx.Rollback()

	for _, s := range items {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("upsert sources: %w", err)
		}
		model := sourceInsertModel{
			Slug:            s.Slug,
			Name:            s.Name,
			BaseURL:         s.BaseURL,
			Kind:            string(s.Kind),
			CronExpr:        s.CronExpr,
			RateLimitPerMin: s.RateLimitPerMin,
			RobotsDisallow:  s.RobotsDisallow,
			Enabled:         s.Enabled,
		}
		query, args, err := qb.InsertModel("sources", model, `ON CONFLICT (slug)
DO UPDATE SET
    name = EXCLUDED.name,
    base_url = EXCLUDED.base_url,
    kind = EXCLUDED.kind,
    cron_expr = EXCLUDED.cron_expr,
    rate_limit_per_min = EXCLUDED.rate_limit_per_min,
    robots_disallow = EXCLUDED.robots_disallow,
    enabled = EXCLUDED.enabled,
    updated_at = now()`)
		if err != nil {
			return fmt.Errorf("build upsert source query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert source slug=%s: %w", s.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert sources transaction: %w", err)
	}
	return nil
}

func (r *SourceRepository) RecordFetchSuccess(ctx context.Context, slug string, at time.Time) error {
	query, args, err := qb.Update("sources").
		Set("last_fetched_at", at).
		Where(qb.Eq("slug", slug)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build record fetch success query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record fetch success slug=%s: %w", slug, err)
	}
	return nil
}

func (r *SourceRepository) RecordFetchError(ctx context.Context, slug string, at time.Time, message string) error {
	query, args, err := qb.Update("sources").
		Set("last_error_at", at).
		Set("last_error", message).
		Where(qb.Eq("slug", slug)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build record fetch error query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record fetch error slug=%s: %w", slug, err)
	}
	return nil
}

func sourceFromRow(row sourceTableModel) source.Source {
	return source.Source{
		Slug:            row.Slug,
		Name:            row.Name,
		BaseURL:         row.BaseURL,
		Kind:            source.Kind(row.Kind),
		CronExpr:        row.CronExpr,
		RateLimitPerMin: row.RateLimitPerMin,
		RobotsDisallow:  row.RobotsDisallow,
		Enabled:         row.Enabled,
		LastFetchedAt:   nullTimeToTimePtr(row.LastFetchedAt),
		LastErrorAt:     nullTimeToTimePtr(row.LastErrorAt),
		LastError:       nullStringToString(row.LastError),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

// SourceAccuracyRepository persists the rolling per-source hit-rate stats
// the scoring engine's source-agreement and source-accuracy factors read.
type SourceAccuracyRepository struct {
	db *sqlx.DB
}

func NewSourceAccuracyRepository(db *sqlx.DB) *SourceAccuracyRepository {
	return &SourceAccuracyRepository{db: db}
}

func (r *SourceAccuracyRepository) UpsertStats(ctx context.Context, items []source.AccuracyStat) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert accuracy stats transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stat := range items {
		model := sourceAccuracyInsertModel{
			SourceSlug:   stat.SourceSlug,
			WindowDays:   stat.WindowDays,
			TotalGraded:  stat.TotalGraded,
			TotalCorrect: stat.TotalCorrect,
			HitRatePct:   stat.HitRatePct,
			ComputedAt:   stat.ComputedAt,
		}
		query, args, err := qb.InsertModel("source_accuracy_stats", model, `ON CONFLICT (source_slug, window_days)
DO UPDATE SET
    total_graded = EXCLUDED.total_graded,
    total_correct = EXCLUDED.total_correct,
    hit_rate_pct = EXCLUDED.hit_rate_pct,
    computed_at = EXCLUDED.computed_at`)
		if err != nil {
			return fmt.Errorf("build upsert accuracy stat query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert accuracy stat source_slug=%s window=%d: %w", stat.SourceSlug, stat.WindowDays, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert accuracy stats transaction: %w", err)
	}
	return nil
}

func (r *SourceAccuracyRepository) ListBySlugs(ctx context.Context, slugs []string, windowDays int) ([]source.AccuracyStat, error) {
	values := make([]any, len(slugs))
	for i, s := range slugs {
		values[i] = s
	}
	query, args, err := qb.Select("*").From("source_accuracy_stats").
		Where(
			qb.In("source_slug", values),
			qb.Eq("window_days", windowDays),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list accuracy stats by slugs query: %w", err)
	}

	var rows []sourceAccuracyTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list accuracy stats by slugs: %w", err)
	}

	out := make([]source.AccuracyStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, accuracyStatFromRow(row))
	}
	return out, nil
}

func (r *SourceAccuracyRepository) History(ctx context.Context, slug string, windowDays int, limit int) ([]source.AccuracyStat, error) {
	query, args, err := qb.Select("*").From("source_accuracy_stats_history").
		Where(
			qb.Eq("source_slug", slug),
			qb.Eq("window_days", windowDays),
		).
		OrderBy("computed_at DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build accuracy history query: %w", err)
	}

	var rows []sourceAccuracyTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list accuracy history slug=%s: %w", slug, err)
	}

	out := make([]source.AccuracyStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, accuracyStatFromRow(row))
	}
	return out, nil
}

func accuracyStatFromRow(row sourceAccuracyTableModel) source.AccuracyStat {
	hitRate := 0.0
	if row.TotalGraded > 0 {
		hitRate = row.HitRatePct
	}
	return source.AccuracyStat{
		SourceSlug:   row.SourceSlug,
		WindowDays:   row.WindowDays,
		TotalGraded:  row.TotalGraded,
		TotalCorrect: row.TotalCorrect,
		HitRatePct:   hitRate,
		ComputedAt:   row.ComputedAt,
	}
}
