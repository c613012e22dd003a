package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pickline/aggregator/internal/domain/snapshot"
	qb "github.com/pickline/aggregator/internal/platform/querybuilder"
)

type SnapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) Create(ctx context.Context, s snapshot.Snapshot) (snapshot.Snapshot, error) {
	if err := s.Validate(); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("create snapshot: %w", err)
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}

	model := snapshotInsertModel{
		PublicID:      s.ID,
		SourceSlug:    s.SourceSlug,
		URL:           s.URL,
		FetchedAt:     s.FetchedAt,
		Status:        string(s.Status),
		HTTPStatus:    s.HTTPStatus,
		ContentHash:   s.ContentHash,
		StoragePath:   s.StoragePath,
		ContentLength: s.ContentLength,
	}
	query, args, err := qb.InsertModel("snapshots", model, "")
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("build insert snapshot query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("insert snapshot url=%s: %w", s.URL, err)
	}
	return s, nil
}

func (r *SnapshotRepository) GetLatestByURL(ctx context.Context, sourceSlug, url string) (snapshot.Snapshot, bool, error) {
	query, args, err := qb.Select("*").From("snapshots").
		Where(
			qb.Eq("source_slug", sourceSlug),
			qb.Eq("url", url),
		).
		OrderBy("fetched_at DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return snapshot.Snapshot{}, false, fmt.Errorf("build get latest snapshot query: %w", err)
	}

	var row snapshotTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return snapshot.Snapshot{}, false, nil
		}
		return snapshot.Snapshot{}, false, fmt.Errorf("get latest snapshot: %w", err)
	}
	return snapshotFromRow(row), true, nil
}

func (r *SnapshotRepository) ListUnparsed(ctx context.Context, sourceSlug string, limit int) ([]snapshot.Snapshot, error) {
	query, args, err := qb.Select("*").From("snapshots").
		Where(
			qb.Eq("source_slug", sourceSlug),
			qb.Eq("status", "ok"),
			qb.IsNull("parsed_at"),
		).
		OrderBy("fetched_at").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list unparsed snapshots query: %w", err)
	}

	var rows []snapshotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list unparsed snapshots: %w", err)
	}

	out := make([]snapshot.Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, snapshotFromRow(row))
	}
	return out, nil
}

func (r *SnapshotRepository) MarkParsed(ctx context.Context, id string, parseErr error) error {
	update := qb.Update("snapshots").
		SetExpr("parsed_at", "now()").
		Where(qb.Eq("public_id", id))
	if parseErr != nil {
		update = update.Set("parse_error", parseErr.Error())
	}
	query, args, err := update.ToSQL()
	if err != nil {
		return fmt.Errorf("build mark snapshot parsed query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark snapshot parsed id=%s: %w", id, err)
	}
	return nil
}

func snapshotFromRow(row snapshotTableModel) snapshot.Snapshot {
	return snapshot.Snapshot{
		ID:            row.PublicID,
		SourceSlug:    row.SourceSlug,
		URL:           row.URL,
		FetchedAt:     row.FetchedAt,
		Status:        snapshot.FetchStatus(row.Status),
		HTTPStatus:    row.HTTPStatus,
		ContentHash:   row.ContentHash,
		StoragePath:   row.StoragePath,
		ContentLength: row.ContentLength,
		ParsedAt:      nullTimeToTimePtr(row.ParsedAt),
		ParseError:    nullStringToString(row.ParseError),
		CreatedAt:     row.CreatedAt,
	}
}
