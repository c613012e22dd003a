// Package scoring groups predictions by match and produces a nine-factor
// composite ranking of consensus picks, the final stage of the pipeline.
package scoring

import (
	"time"

	"github.com/pickline/aggregator/internal/domain/prediction"
)

// Confidence is the picker-reported conviction level carried by a raw
// prediction's commentary/metadata; adapters normalize their source's own
// vocabulary onto this closed set.
type Confidence string

const (
	ConfidenceBestBet Confidence = "best_bet"
	ConfidenceHigh    Confidence = "high"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceLow     Confidence = "low"
)

var confidenceWeight = map[Confidence]float64{
	ConfidenceBestBet: 30,
	ConfidenceHigh:    22,
	ConfidenceMedium:  12,
	ConfidenceLow:     4,
}

// Pick is one source's contribution to a match group, carrying the fields
// the factor functions need beyond what's in prediction.NormalizedPrediction
// (confidence label, predicted margin, American/decimal odds).
type Pick struct {
	SourceSlug      string
	PickType        prediction.PickType
	Side            prediction.Side
	Confidence      Confidence
	PredictedMargin float64
	HasMargin       bool
	DecimalOdds     float64
	HasOdds         bool
	AvgGoals        float64
	HasAvgGoals     bool
}

// TeamForm is the favored team's recent-record input to the Form factor.
type TeamForm struct {
	WinsLast10   int
	CurrentStreak int // consecutive wins, 0 if not on a winning streak
}

// HeadToHead is the favored team's historical dominance over the opponent.
type HeadToHead struct {
	Meetings   int
	FavSideWins int
}

// VenueSplit is the favored team's record in its venue role for this match
// (home split if the favored side is home, away split otherwise).
type VenueSplit struct {
	Games int
	Wins  int
}

// SourceTrackRecord is one source's historical accuracy, used by both the
// Value/EV factor (blended into estimated probability) and the
// Source-accuracy factor directly.
type SourceTrackRecord struct {
	DecidedPicks int
	WinRatePct   float64 // 0-100
}

// MatchGroup is everything the engine needs to score one match: every pick
// made on it plus the supporting data the per-team async lookups
// (form/h2h/splits/accuracy) resolved ahead of scoring.
type MatchGroup struct {
	MatchID    string
	Sport      string
	GameDate   time.Time
	HomeTeamID string
	AwayTeamID string
	Picks      []Pick

	SourceTrackRecords map[string]SourceTrackRecord // keyed by source slug, sport-specific
	CrossSportRecords  map[string]SourceTrackRecord // keyed by source slug, fallback
	FavTeamForm        TeamForm
	H2H                HeadToHead
	FavVenueSplit      VenueSplit
}

// Breakdown carries each factor's raw contribution for API transparency.
type Breakdown struct {
	SourceAgreement float64 `json:"source_agreement"`
	Confidence      float64 `json:"confidence"`
	PredictedMargin float64 `json:"predicted_margin"`
	ValueEV         float64 `json:"value_ev"`
	SourceAccuracy  float64 `json:"source_accuracy"`
	Alignment       float64 `json:"alignment"`
	Form            float64 `json:"form"`
	HeadToHead      float64 `json:"head_to_head"`
	HomeAdvantage   float64 `json:"home_advantage"`
}

// Sum is the raw (pre-normalization) total across all nine factors, whose
// maximum possible value is 140.
func (b Breakdown) Sum() float64 {
	return b.SourceAgreement + b.Confidence + b.PredictedMargin + b.ValueEV +
		b.SourceAccuracy + b.Alignment + b.Form + b.HeadToHead + b.HomeAdvantage
}

const rawMax = 140

// ScoredMatch is one match's final composite result, ready for API
// serialization.
type ScoredMatch struct {
	MatchID      string    `json:"match_id"`
	Sport        string    `json:"sport"`
	GameDate     time.Time `json:"game_date"`
	FavSide      prediction.Side `json:"fav_side"`
	Score        int       `json:"score"`
	Analysis     string    `json:"analysis"`
	Breakdown    Breakdown `json:"breakdown"`
	ComputedAt   time.Time `json:"computed_at"`
}
