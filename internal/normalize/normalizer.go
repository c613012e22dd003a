package normalize

import (
	"context"
	"fmt"

	"github.com/pickline/aggregator/internal/domain/match"
	"github.com/pickline/aggregator/internal/domain/prediction"
	"github.com/pickline/aggregator/internal/platform/id"
	"github.com/pickline/aggregator/internal/platform/logging"
)

// Normalizer resolves a RawPrediction against the team/match graph and
// persists it, collapsing duplicate scrapes via the prediction's dedup
// key rather than trusting a source to only publish a pick once.
type Normalizer struct {
	resolvers map[string]*TeamResolver // sport -> resolver
	matches   match.Repository
	preds     prediction.Repository
	ids       id.Generator
	logger    *logging.Logger
}

func New(matches match.Repository, preds prediction.Repository, ids id.Generator, logger *logging.Logger) *Normalizer {
	return &Normalizer{
		resolvers: make(map[string]*TeamResolver),
		matches:   matches,
		preds:     preds,
		ids:       ids,
		logger:    logger,
	}
}

// RegisterResolver wires the team resolver used for a given sport; call
// once per sport at startup after each resolver's initial Refresh.
func (n *Normalizer) RegisterResolver(sport string, resolver *TeamResolver) {
	n.resolvers[sport] = resolver
}

// Normalize resolves teams and match identity for raw, upserts the match,
// and inserts the prediction if its dedup key has not been seen before.
// created reports whether a new prediction row was actually written. A
// raw prediction whose home or away team cannot be resolved is dropped
// (created=false, err=nil) rather than attached to a match under an
// empty team id.
func (n *Normalizer) Normalize(ctx context.Context, raw prediction.RawPrediction) (created bool, err error) {
	if err := raw.Validate(); err != nil {
		return false, fmt.Errorf("normalize: invalid raw prediction: %w", err)
	}

	homeID, awayID, err := n.resolveTeams(ctx, raw)
	if err != nil {
		return false, fmt.Errorf("normalize: resolve teams: %w", err)
	}
	if homeID == "" || awayID == "" {
		n.logger.Debug("normalize: dropping prediction with unresolved team name",
			"source_slug", raw.SourceSlug,
			"sport", raw.Sport,
			"home_raw", raw.HomeTeamRaw,
			"away_raw", raw.AwayTeamRaw,
		)
		return false, nil
	}

	candidate := match.Match{
		Sport:        raw.Sport,
		HomeTeamID:   homeID,
		AwayTeamID:   awayID,
		HomeTeamName: raw.HomeTeamRaw,
		AwayTeamName: raw.AwayTeamRaw,
		StartTime:    raw.MatchDate,
		Status:       match.StatusScheduled,
	}
	m, err := n.matches.FindOrCreate(ctx, candidate)
	if err != nil {
		return false, fmt.Errorf("normalize: find or create match: %w", err)
	}

	predictionID, err := n.ids.NewID()
	if err != nil {
		return false, fmt.Errorf("normalize: generate prediction id: %w", err)
	}

	np := prediction.NormalizedPrediction{
		ID:              predictionID,
		DedupKey:        DedupKey(m.ID, raw),
		SourceSlug:      raw.SourceSlug,
		PickerName:      raw.PickerName,
		MatchID:         m.ID,
		PickType:        raw.PickType,
		Side:            raw.Side,
		Value:           raw.Value,
		HasValue:        raw.HasValue,
		Confidence:      raw.Confidence,
		PredictedMargin: raw.PredictedMargin,
		PredictedHasVal: raw.PredictedHasVal,
		Odds:            raw.Odds,
		HasOdds:         raw.HasOdds,
		Commentary:      raw.Commentary,
		PublishedAt:     raw.PublishedAt,
	}
	if err := np.Validate(); err != nil {
		return false, fmt.Errorf("normalize: invalid normalized prediction: %w", err)
	}

	created, err = n.preds.UpsertIgnoreDuplicate(ctx, np)
	if err != nil {
		return false, fmt.Errorf("normalize: upsert prediction: %w", err)
	}
	return created, nil
}

func (n *Normalizer) resolveTeams(ctx context.Context, raw prediction.RawPrediction) (homeID, awayID string, err error) {
	resolver, ok := n.resolvers[raw.Sport]
	if !ok {
		return "", "", nil
	}
	if homeID, err = resolver.Resolve(ctx, raw.HomeTeamRaw); err != nil {
		return "", "", fmt.Errorf("resolve home team %q: %w", raw.HomeTeamRaw, err)
	}
	if awayID, err = resolver.Resolve(ctx, raw.AwayTeamRaw); err != nil {
		return "", "", fmt.Errorf("resolve away team %q: %w", raw.AwayTeamRaw, err)
	}
	return homeID, awayID, nil
}
