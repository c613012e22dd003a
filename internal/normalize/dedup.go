package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pickline/aggregator/internal/domain/prediction"
)

// DedupKey computes the stable hash that collapses repeat scrapes of the
// same pick into one row: two RawPrediction values scraped minutes apart
// from the same source describing the same picker's same call on the same
// match must hash identically.
func DedupKey(matchID string, raw prediction.RawPrediction) string {
	value := "0"
	if raw.HasValue {
		value = fmt.Sprintf("%.4f", raw.Value)
	}
	input := fmt.Sprintf(
		"%s|%s|%s|%s|%s|%s|%s",
		raw.SourceSlug,
		matchID,
		normalizePicker(raw.PickerName),
		raw.PickType,
		raw.Side,
		value,
		raw.MatchDate.UTC().Format("2006-01-02"),
	)
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

func normalizePicker(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
