// Package usecase holds read-only query services over the persisted
// pipeline output; nothing here mutates state, that lives in
// internal/worker and internal/scheduler.
package usecase

import (
	"context"
	"fmt"

	"github.com/pickline/aggregator/internal/domain/match"
	"github.com/pickline/aggregator/internal/domain/prediction"
	"github.com/pickline/aggregator/internal/domain/source"
	"github.com/pickline/aggregator/internal/scoring"
)

// TipsBreakdown is one (pickType, side) bucket's summary for a match.
type TipsBreakdown struct {
	PickType      prediction.PickType `json:"pick_type"`
	Side          prediction.Side     `json:"side"`
	Count         int                 `json:"count"`
	BestConfidence float64            `json:"best_confidence"`
	AvgValue      float64             `json:"avg_value"`
}

// MatchSummary is one match's aggregated pick activity for the
// /predictions/matches endpoint.
type MatchSummary struct {
	MatchID      string          `json:"match_id"`
	Sport        string          `json:"sport"`
	HomeTeamName string          `json:"home_team_name"`
	AwayTeamName string          `json:"away_team_name"`
	StartTime    string          `json:"start_time"`
	TotalPicks   int             `json:"total_picks"`
	Breakdown    []TipsBreakdown `json:"breakdown"`
}

// PredictionQueryService answers every read-only endpoint in the HTTP
// surface, composing the persistence repositories and the scoring engine
// without owning any ingestion logic itself.
type PredictionQueryService struct {
	predictions prediction.Repository
	matches     match.Repository
	accuracy    source.AccuracyRepository
	scoring     *scoring.Engine
}

func NewPredictionQueryService(
	predictions prediction.Repository,
	matches match.Repository,
	accuracy source.AccuracyRepository,
	scoringEngine *scoring.Engine,
) *PredictionQueryService {
	return &PredictionQueryService{
		predictions: predictions,
		matches:     matches,
		accuracy:    accuracy,
		scoring:     scoringEngine,
	}
}

func (s *PredictionQueryService) Stats(ctx context.Context, sport string) ([]prediction.StatRow, error) {
	rows, err := s.predictions.Stats(ctx, sport)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	return rows, nil
}

// Matches lists every match with pick activity for sport/date/source,
// each with a breakdown of pick counts by (pickType, side).
func (s *PredictionQueryService) Matches(ctx context.Context, sport, date, sourceSlug string) ([]MatchSummary, error) {
	picks, err := s.predictions.ListFiltered(ctx, sport, date, sourceSlug, 0)
	if err != nil {
		return nil, fmt.Errorf("query matches: list predictions: %w", err)
	}

	type bucketKey struct {
		matchID  string
		pickType prediction.PickType
		side     prediction.Side
	}
	type bucket struct {
		count          int
		bestConfidence float64
		valueSum       float64
		valueCount     int
	}
	buckets := make(map[bucketKey]*bucket)
	matchIDs := make([]string, 0)
	seenMatch := make(map[string]struct{})

	for _, p := range picks {
		if _, ok := seenMatch[p.MatchID]; !ok {
			seenMatch[p.MatchID] = struct{}{}
			matchIDs = append(matchIDs, p.MatchID)
		}
		key := bucketKey{matchID: p.MatchID, pickType: p.PickType, side: p.Side}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.count++
		if p.Confidence > b.bestConfidence {
			b.bestConfidence = p.Confidence
		}
		if p.HasValue {
			b.valueSum += p.Value
			b.valueCount++
		}
	}

	out := make([]MatchSummary, 0, len(matchIDs))
	for _, matchID := range matchIDs {
		m, ok, err := s.matches.GetByID(ctx, matchID)
		if err != nil {
			return nil, fmt.Errorf("query matches: load match %s: %w", matchID, err)
		}
		if !ok {
			continue
		}

		summary := MatchSummary{
			MatchID:      m.ID,
			Sport:        m.Sport,
			HomeTeamName: m.HomeTeamName,
			AwayTeamName: m.AwayTeamName,
			StartTime:    m.StartTime.UTC().Format("2006-01-02T15:04:05Z07:00"),
		}
		for key, b := range buckets {
			if key.matchID != matchID {
				continue
			}
			avgValue := 0.0
			if b.valueCount > 0 {
				avgValue = b.valueSum / float64(b.valueCount)
			}
			summary.Breakdown = append(summary.Breakdown, TipsBreakdown{
				PickType:       key.pickType,
				Side:           key.side,
				Count:          b.count,
				BestConfidence: b.bestConfidence,
				AvgValue:       avgValue,
			})
			summary.TotalPicks += b.count
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *PredictionQueryService) TopPicks(ctx context.Context, sport, date string, limit int) ([]scoring.ScoredMatch, error) {
	picks, err := s.scoring.TopPicks(ctx, sport, date, limit)
	if err != nil {
		return nil, fmt.Errorf("query top picks: %w", err)
	}
	return picks, nil
}

func (s *PredictionQueryService) BestMultis(ctx context.Context, sport, date string) (map[string][]scoring.ScoredMatch, error) {
	multis, err := s.scoring.BestMultis(ctx, sport, date)
	if err != nil {
		return nil, fmt.Errorf("query best multis: %w", err)
	}
	return multis, nil
}

func (s *PredictionQueryService) Accuracy(ctx context.Context, sport string, pickType prediction.PickType) (prediction.AccuracySummary, error) {
	summary, err := s.predictions.Accuracy(ctx, sport, pickType)
	if err != nil {
		return prediction.AccuracySummary{}, fmt.Errorf("query accuracy: %w", err)
	}
	return summary, nil
}

func (s *PredictionQueryService) AccuracyHistory(ctx context.Context, sourceSlug string, windowDays, limit int) ([]source.AccuracyStat, error) {
	history, err := s.accuracy.History(ctx, sourceSlug, windowDays, limit)
	if err != nil {
		return nil, fmt.Errorf("query accuracy history: %w", err)
	}
	return history, nil
}

func (s *PredictionQueryService) Predictions(ctx context.Context, sport, date, sourceSlug string, limit int) ([]prediction.NormalizedPrediction, error) {
	picks, err := s.predictions.ListFiltered(ctx, sport, date, sourceSlug, limit)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	return picks, nil
}

func (s *PredictionQueryService) PredictionsByMatch(ctx context.Context, matchID string) ([]prediction.NormalizedPrediction, error) {
	picks, err := s.predictions.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("query predictions by match: %w", err)
	}
	return picks, nil
}
