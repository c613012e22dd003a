package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/pickline/aggregator/internal/domain/team"
	qb "github.com/pickline/aggregator/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListBySport(ctx context.Context, sport string) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("sport", sport)).
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by sport query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by sport: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapTeamRow(row))
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("public_id", teamID)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by id query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by id: %w", err)
	}
	return mapTeamRow(row), true, nil
}

func (r *TeamRepository) Create(ctx context.Context, t team.Team) error {
	model := teamInsertModel{
		PublicID:     strings.TrimSpace(t.ID),
		Sport:        strings.TrimSpace(t.Sport),
		Name:         strings.TrimSpace(t.Name),
		Abbreviation: strings.TrimSpace(t.Abbreviation),
	}
	query, args, err := qb.InsertModel("teams", model, `ON CONFLICT (public_id)
DO UPDATE SET
    sport = EXCLUDED.sport,
    name = EXCLUDED.name,
    abbreviation = EXCLUDED.abbreviation,
    updated_at = now()`)
	if err != nil {
		return fmt.Errorf("build upsert team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team id=%s: %w", t.ID, err)
	}
	return nil
}

func (r *TeamRepository) ListAliases(ctx context.Context, sport string) ([]team.Alias, error) {
	query, args, err := qb.Select("*").From("team_aliases").
		Where(qb.Eq("sport", sport)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team aliases query: %w", err)
	}

	var rows []teamAliasTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team aliases: %w", err)
	}

	out := make([]team.Alias, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Alias{Sport: row.Sport, Alias: row.Alias, TeamID: row.TeamID})
	}
	return out, nil
}

func (r *TeamRepository) CreateAlias(ctx context.Context, a team.Alias) error {
	model := teamAliasInsertModel{
		Sport:  strings.TrimSpace(a.Sport),
		Alias:  strings.TrimSpace(a.Alias),
		TeamID: strings.TrimSpace(a.TeamID),
	}
	query, args, err := qb.InsertModel("team_aliases", model, `ON CONFLICT (sport, alias)
DO UPDATE SET team_public_id = EXCLUDED.team_public_id`)
	if err != nil {
		return fmt.Errorf("build upsert team alias query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team alias sport=%s alias=%s: %w", a.Sport, a.Alias, err)
	}
	return nil
}

func mapTeamRow(row teamTableModel) team.Team {
	return team.Team{
		ID:           row.PublicID,
		Sport:        row.Sport,
		Name:         row.Name,
		Abbreviation: row.Abbreviation,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
