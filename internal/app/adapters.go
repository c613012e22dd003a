package app

import (
	"fmt"

	"github.com/pickline/aggregator/internal/adapter"
	"github.com/pickline/aggregator/internal/adapter/apiboard"
	"github.com/pickline/aggregator/internal/adapter/htmlboard"
	"github.com/pickline/aggregator/internal/adapter/jsonboard"
)

// registerAdapters wires one concrete adapter per known source into the
// registry. New sources are added here; sources/row shapes that don't fit
// any of the three generic adapters get their own package next to
// htmlboard/jsonboard/apiboard.
func registerAdapters(registry *adapter.Registry) {
	registry.Register(htmlboard.New(
		adapter.Config{
			SourceSlug: "coverspicks",
			Sport:      "nba",
			BaseURL:    "https://www.covers.com/picks/nba",
			FetchKind:  adapter.FetchKindHTTP,
		},
		htmlboard.Selectors{
			Row:         "table.picks-table tbody tr",
			Picker:      "td.picker-name",
			MatchupText: "td.matchup",
			PickType:    "td.pick-type",
			Side:        "td.pick-side",
			Value:       "td.pick-value",
			Confidence:  "td.pick-confidence",
			GameDate:    "td.game-date",
		},
	))

	registry.Register(htmlboard.New(
		adapter.Config{
			SourceSlug: "vegasinsidernfl",
			Sport:      "nfl",
			BaseURL:    "https://www.vegasinsider.com/nfl/experts",
			FetchKind:  adapter.FetchKindHTTP,
		},
		htmlboard.Selectors{
			Row:         "div.expert-picks-row",
			Picker:      ".expert-name",
			MatchupText: ".matchup-teams",
			PickType:    ".pick-category",
			Side:        ".pick-selection",
			Value:       ".pick-line",
			Confidence:  ".pick-confidence",
			GameDate:    ".game-date",
			GameDateFmt: "01/02/2006",
		},
	))

	registry.Register(jsonboard.New(
		adapter.Config{
			SourceSlug: "actionnetworkmlb",
			Sport:      "mlb",
			BaseURL:    "https://www.actionnetwork.com/mlb/picks",
			FetchKind:  adapter.FetchKindHTTP,
		},
		"script#__NEXT_DATA__",
	))

	registry.Register(apiboard.New(
		adapter.Config{
			SourceSlug: "oddsshark",
			Sport:      "nhl",
			BaseURL:    "https://api.oddsshark.com/v2/nhl/picks",
			FetchKind:  adapter.FetchKindHTTP,
		},
		func(baseURL, matchID string) string {
			return fmt.Sprintf("%s/matches/%s", baseURL, matchID)
		},
	))
}
