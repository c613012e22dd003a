package htmlboard

import (
	"context"
	"testing"

	"github.com/pickline/aggregator/internal/adapter"
)

const sampleHTML = `
<html><body>
<table>
<tr class="pick-row">
  <td class="picker">Joe Smith</td>
  <td class="matchup">Lakers @ Celtics</td>
  <td class="pick-type">moneyline</td>
  <td class="side">home</td>
  <td class="value">-110</td>
  <td class="confidence">72%</td>
  <td class="game-date">2026-01-15</td>
</tr>
<tr class="pick-row">
  <td class="picker">Jane Doe</td>
  <td class="matchup">Warriors @ Suns</td>
  <td class="pick-type">spread</td>
  <td class="side">away</td>
  <td class="value">+3.5</td>
  <td class="confidence">0.6</td>
  <td class="game-date">2026-01-15</td>
</tr>
</table>
</body></html>`

func testSelectors() Selectors {
	return Selectors{
		Row:         "tr.pick-row",
		Picker:      "td.picker",
		MatchupText: "td.matchup",
		PickType:    "td.pick-type",
		Side:        "td.side",
		Value:       "td.value",
		Confidence:  "td.confidence",
		GameDate:    "td.game-date",
	}
}

func TestAdapter_Parse(t *testing.T) {
	a := New(adapter.Config{
		SourceSlug: "example-picks",
		Sport:      "nba",
		BaseURL:    "https://example.test",
		FetchKind:  adapter.FetchKindHTTP,
	}, testSelectors())

	preds, err := a.Parse(context.Background(), []byte(sampleHTML), "https://example.test/picks")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(preds) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(preds))
	}

	first := preds[0]
	if first.PickerName != "Joe Smith" {
		t.Errorf("PickerName = %q, want Joe Smith", first.PickerName)
	}
	if first.HomeTeamRaw != "Celtics" || first.AwayTeamRaw != "Lakers" {
		t.Errorf("home/away = %q/%q, want Celtics/Lakers", first.HomeTeamRaw, first.AwayTeamRaw)
	}
	if !first.HasValue || first.Value != -110 {
		t.Errorf("value = %v (has=%v), want -110", first.Value, first.HasValue)
	}
	if first.Confidence != 0.72 {
		t.Errorf("confidence = %v, want 0.72", first.Confidence)
	}

	second := preds[1]
	if second.Confidence != 0.6 {
		t.Errorf("second confidence = %v, want 0.6", second.Confidence)
	}
}

func TestAdapter_DiscoverURLs_ReturnsSeedUnchanged(t *testing.T) {
	a := New(adapter.Config{SourceSlug: "s", Sport: "nba", BaseURL: "https://example.test", FetchKind: adapter.FetchKindHTTP}, testSelectors())
	urls, err := a.DiscoverURLs(context.Background(), nil, "https://example.test/picks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(urls) != 1 || urls[0] != "https://example.test/picks" {
		t.Fatalf("unexpected urls: %v", urls)
	}
}

func TestSplitMatchup(t *testing.T) {
	cases := []struct {
		text, wantHome, wantAway string
	}{
		{"Lakers @ Celtics", "Celtics", "Lakers"},
		{"Lakers at Celtics", "Celtics", "Lakers"},
		{"Lakers vs Celtics", "Celtics", "Lakers"},
	}
	for _, c := range cases {
		home, away, err := splitMatchup(c.text)
		if err != nil {
			t.Fatalf("splitMatchup(%q) error: %v", c.text, err)
		}
		if home != c.wantHome || away != c.wantAway {
			t.Errorf("splitMatchup(%q) = (%q, %q), want (%q, %q)", c.text, home, away, c.wantHome, c.wantAway)
		}
	}
}
