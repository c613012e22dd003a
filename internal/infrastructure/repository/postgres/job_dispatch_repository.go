package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pickline/aggregator/internal/domain/jobdispatch"
	qb "github.com/pickline/aggregator/internal/platform/querybuilder"
)

type JobDispatchRepository struct {
	db *sqlx.DB
}

func NewJobDispatchRepository(db *sqlx.DB) *JobDispatchRepository {
	return &JobDispatchRepository{db: db}
}

func (r *JobDispatchRepository) Create(ctx context.Context, d jobdispatch.Dispatch) (jobdispatch.Dispatch, error) {
	if err := d.Validate(); err != nil {
		return jobdispatch.Dispatch{}, fmt.Errorf("create job dispatch: %w", err)
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.Status == "" {
		d.Status = jobdispatch.StatusPending
	}

	model := jobDispatchInsertModel{
		PublicID:    d.ID,
		Kind:        string(d.Kind),
		SourceSlug:  d.SourceSlug,
		Payload:     d.Payload,
		Status:      string(d.Status),
		Attempts:    d.Attempts,
		MaxAttempts: d.MaxAttempts,
		ScheduledAt: d.ScheduledAt,
	}
	query, args, err := qb.InsertModel("job_dispatches", model, "RETURNING *")
	if err != nil {
		return jobdispatch.Dispatch{}, fmt.Errorf("build insert job dispatch query: %w", err)
	}

	var row jobDispatchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return jobdispatch.Dispatch{}, fmt.Errorf("insert job dispatch kind=%s: %w", d.Kind, err)
	}
	return jobDispatchFromRow(row), nil
}

// ClaimNextBatch uses SELECT ... FOR UPDATE SKIP LOCKED so concurrent worker
// pool instances never hand the same dispatch to two workers.
func (r *JobDispatchRepository) ClaimNextBatch(ctx context.Context, kinds []jobdispatch.Kind, limit int) ([]jobdispatch.Dispatch, error) {
	kindStrs := make([]string, len(kinds))
	for i, k := range kinds {
		kindStrs[i] = string(k)
	}

	query := `UPDATE job_dispatches
SET status = 'running', started_at = now(), attempts = attempts + 1, updated_at = now()
WHERE id IN (
    SELECT id FROM job_dispatches
    WHERE kind = ANY($1)
      AND status IN ('pending', 'failed')
      AND scheduled_at <= now()
      AND (next_retry_at IS NULL OR next_retry_at <= now())
    ORDER BY scheduled_at
    LIMIT $2
    FOR UPDATE SKIP LOCKED
)
RETURNING *`

	var rows []jobDispatchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(kindStrs), limit); err != nil {
		return nil, fmt.Errorf("claim next job dispatch batch: %w", err)
	}

	out := make([]jobdispatch.Dispatch, 0, len(rows))
	for _, row := range rows {
		out = append(out, jobDispatchFromRow(row))
	}
	return out, nil
}

func (r *JobDispatchRepository) MarkSucceeded(ctx context.Context, id string, finishedAt time.Time) error {
	query, args, err := qb.Update("job_dispatches").
		Set("status", string(jobdispatch.StatusSucceeded)).
		Set("finished_at", finishedAt).
		SetExpr("updated_at", "now()").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark job dispatch succeeded query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark job dispatch succeeded id=%s: %w", id, err)
	}
	return nil
}

func (r *JobDispatchRepository) MarkFailed(ctx context.Context, id string, errMsg string, nextRetryAt *time.Time) error {
	update := qb.Update("job_dispatches").
		Set("status", string(jobdispatch.StatusFailed)).
		Set("last_error", errMsg).
		SetExpr("updated_at", "now()").
		Where(qb.Eq("public_id", id))
	if nextRetryAt != nil {
		update = update.Set("next_retry_at", *nextRetryAt)
	}
	query, args, err := update.ToSQL()
	if err != nil {
		return fmt.Errorf("build mark job dispatch failed query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark job dispatch failed id=%s: %w", id, err)
	}
	return nil
}

func (r *JobDispatchRepository) MarkDeadLetter(ctx context.Context, id string, errMsg string) error {
	query, args, err := qb.Update("job_dispatches").
		Set("status", string(jobdispatch.StatusDeadLetter)).
		Set("last_error", errMsg).
		SetExpr("finished_at", "now()").
		SetExpr("updated_at", "now()").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark job dispatch dead letter query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark job dispatch dead letter id=%s: %w", id, err)
	}
	return nil
}

func (r *JobDispatchRepository) ListRecent(ctx context.Context, sourceSlug string, limit int) ([]jobdispatch.Dispatch, error) {
	query, args, err := qb.Select("*").From("job_dispatches").
		Where(qb.Eq("source_slug", sourceSlug)).
		OrderBy("scheduled_at DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list recent job dispatches query: %w", err)
	}

	var rows []jobDispatchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list recent job dispatches source_slug=%s: %w", sourceSlug, err)
	}

	out := make([]jobdispatch.Dispatch, 0, len(rows))
	for _, row := range rows {
		out = append(out, jobDispatchFromRow(row))
	}
	return out, nil
}

func (r *JobDispatchRepository) CountByStatus(ctx context.Context, status jobdispatch.Status) (int, error) {
	query, args, err := qb.Select("count(*)").From("job_dispatches").
		Where(qb.Eq("status", string(status))).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count job dispatches by status query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count job dispatches by status %s: %w", status, err)
	}
	return count, nil
}

func jobDispatchFromRow(row jobDispatchTableModel) jobdispatch.Dispatch {
	return jobdispatch.Dispatch{
		ID:          row.PublicID,
		Kind:        jobdispatch.Kind(row.Kind),
		SourceSlug:  row.SourceSlug,
		Payload:     row.Payload,
		Status:      jobdispatch.Status(row.Status),
		Attempts:    row.Attempts,
		MaxAttempts: row.MaxAttempts,
		LastError:   nullStringToString(row.LastError),
		ScheduledAt: row.ScheduledAt,
		StartedAt:   nullTimeToTimePtr(row.StartedAt),
		FinishedAt:  nullTimeToTimePtr(row.FinishedAt),
		NextRetryAt: nullTimeToTimePtr(row.NextRetryAt),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
