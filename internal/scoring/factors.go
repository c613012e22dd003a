package scoring

import (
	"math"

	"github.com/pickline/aggregator/internal/domain/prediction"
)

// favSide returns the majority side among moneyline picks in the group and
// the count of sources backing it versus the runner-up, the input every
// other factor measures against.
func favSide(picks []Pick) (side prediction.Side, majority int, minority int) {
	counts := make(map[prediction.Side]int)
	for _, p := range picks {
		if p.PickType == prediction.PickMoneyline {
			counts[p.Side]++
		}
	}
	for s, c := range counts {
		if c > majority {
			side, majority = s, c
		}
	}
	for s, c := range counts {
		if s == side {
			continue
		}
		if c > minority {
			minority = c
		}
	}
	return side, majority, minority
}

// SourceAgreement rewards consensus among moneyline picks and penalizes a
// group split across sides.
func SourceAgreement(picks []Pick) float64 {
	_, majority, minority := favSide(picks)
	var base float64
	switch {
	case majority >= 4:
		base = 20
	case majority == 3:
		base = 18
	case majority == 2:
		base = 14
	case majority == 1:
		base = 5
	default:
		return 0
	}
	penalty := math.Max(0, float64(majority)*5-float64(minority)*8)
	score := base - penalty
	if score < 0 {
		score = 0
	}
	return score
}

// Confidence blends the strongest and average confidence among picks
// backing favSide.
func ConfidenceScore(picks []Pick, side prediction.Side) float64 {
	var weights []float64
	for _, p := range picks {
		if p.Side != side {
			continue
		}
		if w, ok := confidenceWeight[p.Confidence]; ok {
			weights = append(weights, w)
		}
	}
	if len(weights) == 0 {
		return 3
	}
	maxW, sum := weights[0], 0.0
	for _, w := range weights {
		if w > maxW {
			maxW = w
		}
		sum += w
	}
	mean := sum / float64(len(weights))
	return math.Round(0.7*maxW + 0.3*mean)
}

// PredictedMargin scores the average predicted scoring margin across
// sources against per-sport thresholds; a predicted draw scores minimally.
func PredictedMargin(picks []Pick, sport string) float64 {
	var sum float64
	var n int
	var drawCount int
	for _, p := range picks {
		if !p.HasMargin {
			continue
		}
		if p.PredictedMargin == 0 {
			drawCount++
			continue
		}
		sum += math.Abs(p.PredictedMargin)
		n++
	}
	if n == 0 {
		if drawCount > 0 {
			return 2
		}
		return 0
	}
	avg := sum / float64(n)
	if isFootball(sport) {
		switch {
		case avg >= 3:
			return 25
		case avg >= 2:
			return 20
		case avg >= 1:
			return 12
		default:
			return 3
		}
	}
	switch {
	case avg >= 12:
		return 25
	case avg >= 8:
		return 20
	case avg >= 5:
		return 15
	default:
		return 8
	}
}

func isFootball(sport string) bool {
	switch sport {
	case "soccer", "football", "epl", "laliga", "seriea", "bundesliga":
		return true
	default:
		return false
	}
}

// ValueEV blends historical source accuracy with agreement ratio into an
// estimated win probability, then compares it against the best available
// decimal odds on favSide to produce an expected-value score.
func ValueEV(picks []Pick, side prediction.Side, tracks map[string]SourceTrackRecord) float64 {
	backing := 0
	var bestOdds float64
	var hasOdds bool
	var confBonus float64
	var accSum float64
	var accN int

	for _, p := range picks {
		if p.Side != side {
			continue
		}
		backing++
		if p.HasOdds && (!hasOdds || p.DecimalOdds > bestOdds) {
			bestOdds = p.DecimalOdds
			hasOdds = true
		}
		if p.Confidence == ConfidenceBestBet || p.Confidence == ConfidenceHigh {
			confBonus += 0.01
		}
		if tr, ok := tracks[p.SourceSlug]; ok && tr.DecidedPicks >= 10 {
			accSum += tr.WinRatePct
			accN++
		}
	}
	if backing == 0 || !hasOdds {
		return 0
	}

	avgAcc := 50.0
	if accN > 0 {
		avgAcc = accSum / float64(accN)
	}
	w := math.Min(1, float64(backing)*1.2)
	prob := (avgAcc/100)*w + 0.5*(1-w)

	backingBonus := math.Min(0.05, float64(backing)*0.01)
	if confBonus > 0.04 {
		confBonus = 0.04
	}
	prob += backingBonus + confBonus
	prob = clamp(prob, 0.15, 0.92)

	evPct := (prob*bestOdds - 1) * 100
	switch {
	case evPct >= 20:
		return 20
	case evPct >= 12:
		return 17
	case evPct >= 6:
		return 14
	case evPct >= 2:
		return 10
	case evPct >= 0:
		return 6
	case evPct >= -5:
		return 3
	default:
		return 0
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SourceAccuracyScore averages the historical win rate of sources backing
// favSide, preferring sport-specific records with at least 10 decided
// picks and falling back to cross-sport records under the same threshold.
func SourceAccuracyScore(picks []Pick, side prediction.Side, sportTracks, crossSportTracks map[string]SourceTrackRecord) float64 {
	var sum float64
	var n int
	seen := make(map[string]bool)
	for _, p := range picks {
		if p.Side != side || seen[p.SourceSlug] {
			continue
		}
		seen[p.SourceSlug] = true
		if tr, ok := sportTracks[p.SourceSlug]; ok && tr.DecidedPicks >= 10 {
			sum += tr.WinRatePct
			n++
			continue
		}
		if tr, ok := crossSportTracks[p.SourceSlug]; ok && tr.DecidedPicks >= 10 {
			sum += tr.WinRatePct
			n++
		}
	}
	if n == 0 {
		return 5
	}
	avg := sum / float64(n)
	switch {
	case avg >= 65:
		return 15
	case avg >= 58:
		return 12
	case avg >= 52:
		return 9
	case avg >= 48:
		return 6
	default:
		return 3
	}
}

// Alignment rewards cross-pick-type coherence within the group: a
// moneyline favorite corroborated by a matching spread pick, a
// both-teams-to-score call corroborated by the matching over/under side,
// and an over/under pick corroborated by a reported average-goals figure.
func Alignment(picks []Pick, favoriteSide prediction.Side) float64 {
	var score float64

	hasSpreadAgree := false
	for _, p := range picks {
		if p.PickType == prediction.PickSpread && p.Side == favoriteSide {
			hasSpreadAgree = true
			break
		}
	}
	if hasSpreadAgree {
		score += 3
	}

	var overSide, underSide, bttsYes, bttsNo bool
	var avgGoals float64
	var hasAvgGoals bool
	for _, p := range picks {
		switch {
		case p.PickType == prediction.PickOverUnder && p.Side == prediction.SideOver:
			overSide = true
		case p.PickType == prediction.PickOverUnder && p.Side == prediction.SideUnder:
			underSide = true
		case p.PickType == prediction.PickProp && p.Side == prediction.SideYes:
			bttsYes = true
		case p.PickType == prediction.PickProp && p.Side == prediction.SideNo:
			bttsNo = true
		}
		if p.HasAvgGoals {
			avgGoals = p.AvgGoals
			hasAvgGoals = true
		}
	}
	switch {
	case bttsYes && overSide:
		score += 3
	case bttsNo && underSide:
		score += 3
	}
	if hasAvgGoals {
		switch {
		case overSide && avgGoals >= 2.5:
			score += 2
		case underSide && avgGoals < 2.0:
			score += 2
		}
	}

	if score > 10 {
		score = 10
	}
	return score
}

// Form scores the favored team's last-10 record, with a streak bonus.
func Form(f TeamForm) float64 {
	base := float64(f.WinsLast10) / 10 * 7
	var streakBonus float64
	switch {
	case f.CurrentStreak >= 5:
		streakBonus = 3
	case f.CurrentStreak >= 3:
		streakBonus = 2
	case f.CurrentStreak >= 2:
		streakBonus = 1
	}
	total := base + streakBonus
	if total > 10 {
		total = 10
	}
	return total
}

// HeadToHead scores the favored side's historical dominance in meetings
// between the two teams, requiring at least 2 prior meetings to count.
func HeadToHead(h HeadToHead) float64 {
	if h.Meetings < 2 {
		return 0
	}
	rate := float64(h.FavSideWins) / float64(h.Meetings)
	switch {
	case rate >= 0.8:
		return 5
	case rate >= 0.6:
		return 3
	case rate >= 0.5:
		return 1
	default:
		return 0
	}
}

// HomeAdvantage scores the favored team's record in its venue role for
// this match, requiring at least 5 games to count.
func HomeAdvantage(v VenueSplit) float64 {
	if v.Games < 5 {
		return 0
	}
	rate := float64(v.Wins) / float64(v.Games)
	switch {
	case rate >= 0.75:
		return 5
	case rate >= 0.6:
		return 3
	case rate >= 0.5:
		return 1
	default:
		return 0
	}
}
