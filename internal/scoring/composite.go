package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/pickline/aggregator/internal/domain/prediction"
)

// Compute assembles all nine factors for group into a ScoredMatch. It
// returns ok=false when the group has no moneyline consensus to score
// (favSide could not be determined), which the engine treats as
// unscoreable rather than a zero score.
func Compute(group MatchGroup) (ScoredMatch, bool) {
	side, majority, _ := favSide(group.Picks)
	if majority == 0 {
		return ScoredMatch{}, false
	}

	b := Breakdown{
		SourceAgreement: SourceAgreement(group.Picks),
		Confidence:      ConfidenceScore(group.Picks, side),
		PredictedMargin: PredictedMargin(group.Picks, group.Sport),
		ValueEV:         ValueEV(group.Picks, side, group.SourceTrackRecords),
		SourceAccuracy:  SourceAccuracyScore(group.Picks, side, group.SourceTrackRecords, group.CrossSportRecords),
		Alignment:       Alignment(group.Picks, side),
		Form:            Form(group.FavTeamForm),
		HeadToHead:      HeadToHead(group.H2H),
		HomeAdvantage:   HomeAdvantage(group.FavVenueSplit),
	}

	composite := int(math.Round(b.Sum() / rawMax * 100))

	return ScoredMatch{
		MatchID:   group.MatchID,
		Sport:     group.Sport,
		GameDate:  group.GameDate,
		FavSide:   side,
		Score:     composite,
		Analysis:  buildAnalysis(group, side, b),
		Breakdown: b,
	}, true
}

func buildAnalysis(group MatchGroup, side prediction.Side, b Breakdown) string {
	var sentences []string

	_, majority, minority := favSide(group.Picks)
	sentences = append(sentences, fmt.Sprintf("%d source(s) back %s versus %d dissenting.", majority, side, minority))

	switch {
	case b.SourceAccuracy >= 15:
		sentences = append(sentences, "Backing sources carry a strong historical track record.")
	case b.SourceAccuracy >= 9:
		sentences = append(sentences, "Backing sources carry an average historical track record.")
	default:
		sentences = append(sentences, "Backing sources have limited or unproven track record.")
	}

	switch {
	case b.ValueEV >= 14:
		sentences = append(sentences, "Strong expected value at the best available odds.")
	case b.ValueEV >= 6:
		sentences = append(sentences, "Modest value at the best available odds.")
	default:
		sentences = append(sentences, "Negative or negligible expected value at current odds.")
	}

	if b.Alignment >= 3 {
		sentences = append(sentences, "Cross-market signals (spread, totals, props) corroborate the pick.")
	}

	return strings.Join(sentences, " ")
}
