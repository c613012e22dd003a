package normalize

import (
	"testing"
	"time"

	"github.com/pickline/aggregator/internal/domain/prediction"
)

func TestDedupKey_StableAcrossRepeatScrapes(t *testing.T) {
	base := prediction.RawPrediction{
		SourceSlug: "example-picks",
		PickerName: "  Joe   Smith ",
		PickType:   prediction.PickMoneyline,
		Side:       prediction.SideHome,
		Value:      -110,
		HasValue:   true,
		MatchDate:  time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	repeat := base
	repeat.PickerName = "Joe Smith"
	repeat.Confidence = 0.9 // confidence drift must not change the key

	key1 := DedupKey("match-123", base)
	key2 := DedupKey("match-123", repeat)
	if key1 != key2 {
		t.Fatalf("expected stable dedup key across re-scrapes, got %s vs %s", key1, key2)
	}
}

func TestDedupKey_DiffersOnSide(t *testing.T) {
	base := prediction.RawPrediction{
		SourceSlug: "example-picks",
		PickerName: "Joe Smith",
		PickType:   prediction.PickMoneyline,
		Side:       prediction.SideHome,
		MatchDate:  time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	other := base
	other.Side = prediction.SideAway

	if DedupKey("match-123", base) == DedupKey("match-123", other) {
		t.Fatal("expected different dedup keys for different sides")
	}
}
