// Package apiboard implements a two-stage adapter for sources whose picks
// live behind a JSON API: one index endpoint lists match IDs, and each
// match's picks are fetched from a per-match detail endpoint. DiscoverURLs
// expands the index into detail URLs; Parse handles only detail responses.
package apiboard

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/pickline/aggregator/internal/adapter"
	"github.com/pickline/aggregator/internal/domain/prediction"
)

type indexResponse struct {
	Matches []struct {
		ID string `json:"id"`
	} `json:"matches"`
}

type detailResponse struct {
	Home string `json:"home_team"`
	Away string `json:"away_team"`
	Date string `json:"date"`
	Picks []struct {
		Picker     string  `json:"picker"`
		Type       string  `json:"type"`
		Side       string  `json:"side"`
		Value      float64 `json:"value"`
		HasValue   bool    `json:"has_value"`
		Confidence float64 `json:"confidence"`
	} `json:"picks"`
}

// DetailURLFunc builds the detail endpoint URL for one match ID discovered
// from the index response; it is source-specific (path shape, query
// params) so it is supplied rather than assumed.
type DetailURLFunc func(baseURL, matchID string) string

type Adapter struct {
	cfg       adapter.Config
	detailURL DetailURLFunc
}

func New(cfg adapter.Config, detailURL DetailURLFunc) *Adapter {
	return &Adapter{cfg: cfg, detailURL: detailURL}
}

func (a *Adapter) Config() adapter.Config { return a.cfg }

func (a *Adapter) DiscoverURLs(_ context.Context, seedBody []byte, _ string) ([]string, error) {
	var idx indexResponse
	if err := sonic.Unmarshal(seedBody, &idx); err != nil {
		return nil, fmt.Errorf("apiboard: decode index: %w", err)
	}
	urls := make([]string, 0, len(idx.Matches))
	for _, m := range idx.Matches {
		if m.ID == "" {
			continue
		}
		urls = append(urls, a.detailURL(a.cfg.BaseURL, m.ID))
	}
	return urls, nil
}

func (a *Adapter) Parse(_ context.Context, body []byte, sourceURL string) ([]prediction.RawPrediction, error) {
	var d detailResponse
	if err := sonic.Unmarshal(body, &d); err != nil {
		return nil, fmt.Errorf("apiboard: decode detail %s: %w", sourceURL, err)
	}
	gameDate, err := time.Parse("2006-01-02", d.Date)
	if err != nil {
		return nil, fmt.Errorf("apiboard: parse date %q from %s: %w", d.Date, sourceURL, err)
	}

	out := make([]prediction.RawPrediction, 0, len(d.Picks))
	for _, pick := range d.Picks {
		raw := prediction.RawPrediction{
			SourceSlug:  a.cfg.SourceSlug,
			Sport:       a.cfg.Sport,
			PickerName:  pick.Picker,
			HomeTeamRaw: d.Home,
			AwayTeamRaw: d.Away,
			MatchDate:   gameDate,
			PickType:    prediction.PickType(pick.Type),
			Side:        prediction.Side(pick.Side),
			Value:       pick.Value,
			HasValue:    pick.HasValue,
			Confidence:  pick.Confidence,
			PublishedAt: time.Now().UTC(),
		}
		if err := raw.Validate(); err != nil {
			return nil, fmt.Errorf("apiboard: invalid pick from %s: %w", sourceURL, err)
		}
		out = append(out, raw)
	}
	return out, nil
}
