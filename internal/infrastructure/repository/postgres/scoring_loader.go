package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pickline/aggregator/internal/domain/prediction"
	qb "github.com/pickline/aggregator/internal/platform/querybuilder"
	"github.com/pickline/aggregator/internal/scoring"
)

// ScoringLoader assembles scoring.MatchGroup values for one sport/date,
// implementing scoring.GroupLoader against the same tables the rest of the
// persistence layer writes to. It is read-only and does no caching itself;
// the scoring engine's own result cache sits in front of it.
type ScoringLoader struct {
	db         *sqlx.DB
	windowDays int
}

func NewScoringLoader(db *sqlx.DB, windowDays int) *ScoringLoader {
	if windowDays <= 0 {
		windowDays = 30
	}
	return &ScoringLoader{db: db, windowDays: windowDays}
}

type matchPickRow struct {
	MatchPublicID   string    `db:"match_public_id"`
	Sport           string    `db:"sport"`
	StartTime       time.Time `db:"start_time"`
	HomeTeamPubID   *string   `db:"home_team_public_id"`
	AwayTeamPubID   *string   `db:"away_team_public_id"`
	SourceSlug      string    `db:"source_slug"`
	PickType        string    `db:"pick_type"`
	Side            string    `db:"side"`
	Confidence      float64   `db:"confidence"`
	PredictedMargin *float64  `db:"predicted_margin"`
	Odds            *float64  `db:"odds"`
}

// LoadGroups fans a sport/date out into one MatchGroup per match, each
// carrying every pick made on it plus the supporting data (source track
// record, form, head-to-head, venue split) the factor functions need.
func (l *ScoringLoader) LoadGroups(ctx context.Context, sport, date string) ([]scoring.MatchGroup, error) {
	query, args, err := qb.Select(
		"matches.public_id AS match_public_id",
		"matches.sport",
		"matches.start_time",
		"matches.home_team_public_id",
		"matches.away_team_public_id",
		"predictions.source_slug",
		"predictions.pick_type",
		"predictions.side",
		"predictions.confidence",
		"predictions.predicted_margin",
		"predictions.odds",
	).From("predictions JOIN matches ON matches.public_id = predictions.match_public_id").
		Where(
			qb.Eq("matches.sport", sport),
			qb.Expr("matches.start_time >= ?::date", date),
			qb.Expr("matches.start_time < (?::date + interval '1 day')", date),
		).
		OrderBy("matches.public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("scoring loader: build pick query: %w", err)
	}

	var rows []matchPickRow
	if err := l.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("scoring loader: list picks for %s/%s: %w", sport, date, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	groups := make(map[string]*scoring.MatchGroup, len(rows))
	order := make([]string, 0, len(rows))
	slugSet := make(map[string]struct{})

	for _, row := range rows {
		g, ok := groups[row.MatchPublicID]
		if !ok {
			g = &scoring.MatchGroup{
				MatchID:  row.MatchPublicID,
				Sport:    row.Sport,
				GameDate: row.StartTime,
			}
			if row.HomeTeamPubID != nil {
				g.HomeTeamID = *row.HomeTeamPubID
			}
			if row.AwayTeamPubID != nil {
				g.AwayTeamID = *row.AwayTeamPubID
			}
			groups[row.MatchPublicID] = g
			order = append(order, row.MatchPublicID)
		}

		pick := scoring.Pick{
			SourceSlug: row.SourceSlug,
			PickType:   prediction.PickType(row.PickType),
			Side:       prediction.Side(row.Side),
			Confidence: confidenceFromScore(row.Confidence),
		}
		if row.PredictedMargin != nil {
			pick.PredictedMargin, pick.HasMargin = *row.PredictedMargin, true
		}
		if row.Odds != nil {
			pick.DecimalOdds, pick.HasOdds = *row.Odds, true
		}
		g.Picks = append(g.Picks, pick)
		slugSet[row.SourceSlug] = struct{}{}
	}

	slugs := make([]string, 0, len(slugSet))
	for slug := range slugSet {
		slugs = append(slugs, slug)
	}
	trackRecords, err := l.loadTrackRecords(ctx, slugs)
	if err != nil {
		return nil, err
	}

	out := make([]scoring.MatchGroup, 0, len(order))
	for _, matchID := range order {
		g := groups[matchID]
		g.SourceTrackRecords = trackRecords
		g.CrossSportRecords = trackRecords

		favTeamID := favoredTeamID(g)
		if favTeamID != "" {
			form, err := l.loadTeamForm(ctx, favTeamID, g.GameDate)
			if err != nil {
				return nil, err
			}
			g.FavTeamForm = form

			if g.HomeTeamID != "" && g.AwayTeamID != "" {
				opponentID := g.AwayTeamID
				if favTeamID == g.AwayTeamID {
					opponentID = g.HomeTeamID
				}
				h2h, err := l.loadHeadToHead(ctx, favTeamID, opponentID, g.GameDate)
				if err != nil {
					return nil, err
				}
				g.H2H = h2h

				isHome := favTeamID == g.HomeTeamID
				split, err := l.loadVenueSplit(ctx, favTeamID, isHome, g.GameDate)
				if err != nil {
					return nil, err
				}
				g.FavVenueSplit = split
			}
		}

		out = append(out, *g)
	}
	return out, nil
}

// favoredTeamID picks the side backed by the majority of sources' picks as
// the "favorite" the form/head-to-head/venue factors evaluate, defaulting
// to the home team on a tie since that is the side listed first in the
// match's natural key.
func favoredTeamID(g *scoring.MatchGroup) string {
	homeVotes, awayVotes := 0, 0
	for _, p := range g.Picks {
		switch p.Side {
		case prediction.SideHome:
			homeVotes++
		case prediction.SideAway:
			awayVotes++
		}
	}
	if awayVotes > homeVotes && g.AwayTeamID != "" {
		return g.AwayTeamID
	}
	return g.HomeTeamID
}

func (l *ScoringLoader) loadTrackRecords(ctx context.Context, slugs []string) (map[string]scoring.SourceTrackRecord, error) {
	if len(slugs) == 0 {
		return map[string]scoring.SourceTrackRecord{}, nil
	}
	values := make([]any, len(slugs))
	for i, s := range slugs {
		values[i] = s
	}
	query, args, err := qb.Select("*").From("source_accuracy_stats").
		Where(
			qb.In("source_slug", values),
			qb.Eq("window_days", l.windowDays),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("scoring loader: build track record query: %w", err)
	}

	var rows []sourceAccuracyTableModel
	if err := l.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("scoring loader: list track records: %w", err)
	}

	out := make(map[string]scoring.SourceTrackRecord, len(rows))
	for _, row := range rows {
		out[row.SourceSlug] = scoring.SourceTrackRecord{
			DecidedPicks: row.TotalGraded,
			WinRatePct:   row.HitRatePct,
		}
	}
	return out, nil
}

// loadTeamForm looks at the team's last ten settled results before
// asOf, counting wins and the active winning streak.
func (l *ScoringLoader) loadTeamForm(ctx context.Context, teamID string, asOf time.Time) (scoring.TeamForm, error) {
	query, args, err := qb.Select(
		"match_results.winning_side",
		"matches.home_team_public_id",
		"matches.away_team_public_id",
	).From("match_results JOIN matches ON matches.public_id = match_results.match_public_id").
		Where(
			qb.Expr("(matches.home_team_public_id = ? OR matches.away_team_public_id = ?)", teamID, teamID),
			qb.Expr("matches.start_time < ?", asOf),
		).
		OrderBy("matches.start_time DESC").
		Limit(10).
		ToSQL()
	if err != nil {
		return scoring.TeamForm{}, fmt.Errorf("scoring loader: build team form query: %w", err)
	}

	var rows []struct {
		WinningSide string  `db:"winning_side"`
		HomeTeamID  *string `db:"home_team_public_id"`
		AwayTeamID  *string `db:"away_team_public_id"`
	}
	if err := l.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return scoring.TeamForm{}, fmt.Errorf("scoring loader: list team form results: %w", err)
	}

	form := scoring.TeamForm{}
	streaking := true
	for _, row := range rows {
		isHome := row.HomeTeamID != nil && *row.HomeTeamID == teamID
		won := (isHome && row.WinningSide == "home") || (!isHome && row.WinningSide == "away")
		if won {
			form.WinsLast10++
			if streaking {
				form.CurrentStreak++
			}
		} else {
			streaking = false
		}
	}
	return form, nil
}

// loadHeadToHead counts prior meetings of the two teams and how many of
// them favTeamID won, whichever side it played on.
func (l *ScoringLoader) loadHeadToHead(ctx context.Context, favTeamID, opponentID string, asOf time.Time) (scoring.HeadToHead, error) {
	query, args, err := qb.Select(
		"match_results.winning_side",
		"matches.home_team_public_id",
	).From("match_results JOIN matches ON matches.public_id = match_results.match_public_id").
		Where(
			qb.Expr(`((matches.home_team_public_id = ? AND matches.away_team_public_id = ?)
    OR (matches.home_team_public_id = ? AND matches.away_team_public_id = ?))`,
				favTeamID, opponentID, opponentID, favTeamID),
			qb.Expr("matches.start_time < ?", asOf),
		).
		ToSQL()
	if err != nil {
		return scoring.HeadToHead{}, fmt.Errorf("scoring loader: build head-to-head query: %w", err)
	}

	var rows []struct {
		WinningSide string  `db:"winning_side"`
		HomeTeamID  *string `db:"home_team_public_id"`
	}
	if err := l.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return scoring.HeadToHead{}, fmt.Errorf("scoring loader: list head-to-head results: %w", err)
	}

	h2h := scoring.HeadToHead{Meetings: len(rows)}
	for _, row := range rows {
		homeWon := row.HomeTeamID != nil && *row.HomeTeamID == favTeamID && row.WinningSide == "home"
		awayWon := (row.HomeTeamID == nil || *row.HomeTeamID != favTeamID) && row.WinningSide == "away"
		if homeWon || awayWon {
			h2h.FavSideWins++
		}
	}
	return h2h, nil
}

func (l *ScoringLoader) loadVenueSplit(ctx context.Context, teamID string, isHome bool, asOf time.Time) (scoring.VenueSplit, error) {
	venueCol := "home_team_public_id"
	winSide := "home"
	if !isHome {
		venueCol = "away_team_public_id"
		winSide = "away"
	}

	query, args, err := qb.Select("match_results.winning_side").
		From("match_results JOIN matches ON matches.public_id = match_results.match_public_id").
		Where(
			qb.Expr(fmt.Sprintf("matches.%s = ?", venueCol), teamID),
			qb.Expr("matches.start_time < ?", asOf),
		).
		ToSQL()
	if err != nil {
		return scoring.VenueSplit{}, fmt.Errorf("scoring loader: build venue split query: %w", err)
	}

	var sides []string
	if err := l.db.SelectContext(ctx, &sides, query, args...); err != nil {
		return scoring.VenueSplit{}, fmt.Errorf("scoring loader: list venue split results: %w", err)
	}

	split := scoring.VenueSplit{Games: len(sides)}
	for _, side := range sides {
		if side == winSide {
			split.Wins++
		}
	}
	return split, nil
}

// confidenceFromScore maps a source's reported 0-1 confidence onto the
// closed label set the scoring factors key off of.
func confidenceFromScore(v float64) scoring.Confidence {
	switch {
	case v >= 0.85:
		return scoring.ConfidenceBestBet
	case v >= 0.65:
		return scoring.ConfidenceHigh
	case v >= 0.4:
		return scoring.ConfidenceMedium
	default:
		return scoring.ConfidenceLow
	}
}
