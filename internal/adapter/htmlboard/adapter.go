// Package htmlboard implements a CSS-selector driven adapter for sources
// that publish a plain server-rendered picks table — one <tr> per pick,
// matching the bulk of scraped picks boards.
package htmlboard

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pickline/aggregator/internal/adapter"
	"github.com/pickline/aggregator/internal/domain/prediction"
)

// Selectors describes where each field of a pick lives relative to one row
// element, so the same Adapter implementation can serve any source whose
// markup fits the row-per-pick shape.
type Selectors struct {
	Row         string
	Picker      string
	MatchupText string // e.g. "Lakers @ Celtics"
	PickType    string
	Side        string
	Value       string
	Confidence  string
	GameDate    string
	GameDateFmt string // time.Parse layout, defaults to "2006-01-02"
}

type Adapter struct {
	cfg       adapter.Config
	selectors Selectors
}

func New(cfg adapter.Config, selectors Selectors) *Adapter {
	if selectors.GameDateFmt == "" {
		selectors.GameDateFmt = "2006-01-02"
	}
	return &Adapter{cfg: cfg, selectors: selectors}
}

func (a *Adapter) Config() adapter.Config { return a.cfg }

// DiscoverURLs returns the seed URL unchanged: this adapter expects every
// pick to be present on the one listing page it was given.
func (a *Adapter) DiscoverURLs(_ context.Context, _ []byte, seedURL string) ([]string, error) {
	return []string{seedURL}, nil
}

func (a *Adapter) Parse(_ context.Context, body []byte, sourceURL string) ([]prediction.RawPrediction, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("htmlboard: parse %s: %w", sourceURL, err)
	}

	var out []prediction.RawPrediction
	var parseErr error
	doc.Find(a.selectors.Row).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		raw, err := a.parseRow(row)
		if err != nil {
			parseErr = fmt.Errorf("htmlboard: row in %s: %w", sourceURL, err)
			return false
		}
		out = append(out, raw)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return out, nil
}

func (a *Adapter) parseRow(row *goquery.Selection) (prediction.RawPrediction, error) {
	matchup := strings.TrimSpace(row.Find(a.selectors.MatchupText).First().Text())
	home, away, err := splitMatchup(matchup)
	if err != nil {
		return prediction.RawPrediction{}, err
	}

	dateText := strings.TrimSpace(row.Find(a.selectors.GameDate).First().Text())
	matchDate, err := time.Parse(a.selectors.GameDateFmt, dateText)
	if err != nil {
		return prediction.RawPrediction{}, fmt.Errorf("parse game date %q: %w", dateText, err)
	}

	pickType := prediction.PickType(strings.ToLower(strings.TrimSpace(row.Find(a.selectors.PickType).First().Text())))
	side := prediction.Side(strings.ToLower(strings.TrimSpace(row.Find(a.selectors.Side).First().Text())))

	raw := prediction.RawPrediction{
		SourceSlug:  a.cfg.SourceSlug,
		Sport:       a.cfg.Sport,
		PickerName:  strings.TrimSpace(row.Find(a.selectors.Picker).First().Text()),
		HomeTeamRaw: home,
		AwayTeamRaw: away,
		MatchDate:   matchDate,
		PickType:    pickType,
		Side:        side,
		PublishedAt: time.Now().UTC(),
	}

	if valText := strings.TrimSpace(row.Find(a.selectors.Value).First().Text()); valText != "" {
		if v, err := strconv.ParseFloat(strings.TrimPrefix(valText, "+"), 64); err == nil {
			raw.Value = v
			raw.HasValue = true
		}
	}
	if confText := strings.TrimSpace(row.Find(a.selectors.Confidence).First().Text()); confText != "" {
		if c, err := strconv.ParseFloat(strings.TrimSuffix(confText, "%"), 64); err == nil {
			if c > 1 {
				c = c / 100
			}
			raw.Confidence = c
		}
	}

	return raw, raw.Validate()
}

func splitMatchup(text string) (home, away string, err error) {
	for _, sep := range []string{" @ ", " at ", " vs ", " v "} {
		if idx := strings.Index(text, sep); idx != -1 {
			away = strings.TrimSpace(text[:idx])
			home = strings.TrimSpace(text[idx+len(sep):])
			return home, away, nil
		}
	}
	return "", "", fmt.Errorf("htmlboard: could not split matchup text %q", text)
}
