// Package jsonboard implements an adapter for sources that hydrate their
// picks board from an embedded JSON blob (a Next.js __NEXT_DATA__ script,
// or an inline `window.__STATE__ = {...}` assignment) rather than rendering
// picks directly into HTML.
package jsonboard

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pickline/aggregator/internal/adapter"
	"github.com/pickline/aggregator/internal/adapter/jsonextract"
	"github.com/pickline/aggregator/internal/domain/prediction"
)

// payload is the shape of the embedded JSON this adapter expects; sources
// with a different shape get their own adapter rather than a config knob,
// since the shapes diverge enough that a generic mapper would be harder to
// read than the code it replaces.
type payload struct {
	Picks []struct {
		Picker    string  `json:"picker"`
		Home      string  `json:"home_team"`
		Away      string  `json:"away_team"`
		GameDate  string  `json:"game_date"`
		PickType  string  `json:"pick_type"`
		Side      string  `json:"side"`
		Value     float64 `json:"value"`
		HasValue  bool    `json:"has_value"`
		Odds      float64 `json:"odds"`
		HasOdds   bool    `json:"has_odds"`
		Confidence float64 `json:"confidence"`
		Commentary string `json:"commentary"`
	} `json:"picks"`
}

type Adapter struct {
	cfg      adapter.Config
	selector string
}

// New builds an Adapter that extracts its payload from the first element
// matching scriptSelector (e.g. `script#__NEXT_DATA__`).
func New(cfg adapter.Config, scriptSelector string) *Adapter {
	return &Adapter{cfg: cfg, selector: scriptSelector}
}

func (a *Adapter) Config() adapter.Config { return a.cfg }

func (a *Adapter) DiscoverURLs(_ context.Context, _ []byte, seedURL string) ([]string, error) {
	return []string{seedURL}, nil
}

func (a *Adapter) Parse(_ context.Context, body []byte, sourceURL string) ([]prediction.RawPrediction, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("jsonboard: parse %s: %w", sourceURL, err)
	}

	var p payload
	if err := jsonextract.FromScriptTag(doc, a.selector, &p); err != nil {
		return nil, fmt.Errorf("jsonboard: extract payload from %s: %w", sourceURL, err)
	}

	out := make([]prediction.RawPrediction, 0, len(p.Picks))
	for _, pick := range p.Picks {
		gameDate, err := time.Parse("2006-01-02", pick.GameDate)
		if err != nil {
			return nil, fmt.Errorf("jsonboard: parse game_date %q: %w", pick.GameDate, err)
		}
		raw := prediction.RawPrediction{
			SourceSlug:  a.cfg.SourceSlug,
			Sport:       a.cfg.Sport,
			PickerName:  pick.Picker,
			HomeTeamRaw: pick.Home,
			AwayTeamRaw: pick.Away,
			MatchDate:   gameDate,
			PickType:    prediction.PickType(pick.PickType),
			Side:        prediction.Side(pick.Side),
			Value:       pick.Value,
			HasValue:    pick.HasValue,
			Odds:        pick.Odds,
			HasOdds:     pick.HasOdds,
			Confidence:  pick.Confidence,
			Commentary:  pick.Commentary,
			PublishedAt: time.Now().UTC(),
		}
		if err := raw.Validate(); err != nil {
			return nil, fmt.Errorf("jsonboard: invalid pick from %s: %w", sourceURL, err)
		}
		out = append(out, raw)
	}
	return out, nil
}
