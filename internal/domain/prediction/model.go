// Package prediction models a single tipster's pick as scraped (RawPrediction)
// and after normalization against the canonical match/team graph
// (NormalizedPrediction).
package prediction

import (
	"fmt"
	"strings"
	"time"
)

type PickType string

const (
	PickMoneyline PickType = "moneyline"
	PickSpread    PickType = "spread"
	PickOverUnder PickType = "over_under"
	PickProp      PickType = "prop"
	PickParlay    PickType = "parlay"
)

type Side string

const (
	SideHome  Side = "home"
	SideAway  Side = "away"
	SideDraw  Side = "draw"
	SideOver  Side = "over"
	SideUnder Side = "under"
	SideYes   Side = "yes"
	SideNo    Side = "no"
)

// Grade is the terminal outcome of a graded prediction.
type Grade string

const (
	GradeWin  Grade = "win"
	GradeLoss Grade = "loss"
	GradePush Grade = "push"
	GradeVoid Grade = "void"
)

// RawPrediction is the output of one adapter.Parse call, before team
// resolution and match identity have been established.
type RawPrediction struct {
	SourceSlug      string
	PickerName      string
	Sport           string
	HomeTeamRaw     string
	AwayTeamRaw     string
	MatchDate       time.Time
	PickType        PickType
	Side            Side
	Value           float64
	HasValue        bool
	Confidence      float64 // 0-1, adapter-reported or inferred
	PredictedMargin float64
	PredictedHasVal bool
	Odds            float64
	HasOdds         bool
	Commentary      string
	PublishedAt     time.Time
	RawPayloadHash  string
	ParlayLegs      []RawPrediction // only populated for PickParlay
}

func (r RawPrediction) Validate() error {
	if strings.TrimSpace(r.SourceSlug) == "" {
		return fmt.Errorf("raw prediction source_slug is required")
	}
	if strings.TrimSpace(r.Sport) == "" {
		return fmt.Errorf("raw prediction sport is required")
	}
	if strings.TrimSpace(r.HomeTeamRaw) == "" || strings.TrimSpace(r.AwayTeamRaw) == "" {
		return fmt.Errorf("raw prediction home/away team names are required")
	}
	if r.MatchDate.IsZero() {
		return fmt.Errorf("raw prediction match_date is required")
	}
	switch r.PickType {
	case PickMoneyline, PickSpread, PickOverUnder, PickProp, PickParlay:
	default:
		return fmt.Errorf("raw prediction pick_type %q is not recognized", r.PickType)
	}
	if r.PickType != PickParlay && len(r.ParlayLegs) > 0 {
		return fmt.Errorf("only parlay picks may carry legs")
	}
	return nil
}

// NormalizedPrediction is a RawPrediction after team/match resolution, ready
// for persistence and scoring. DedupKey is the stable hash used to collapse
// re-scrapes of the same pick into one row.
type NormalizedPrediction struct {
	ID              string
	DedupKey        string
	SourceSlug      string
	PickerName      string
	MatchID         string
	PickType        PickType
	Side            Side
	Value           float64
	HasValue        bool
	Confidence      float64
	PredictedMargin float64
	PredictedHasVal bool
	Odds            float64
	HasOdds         bool
	Commentary      string
	PublishedAt     time.Time
	GradedAt        *time.Time
	Grade           *Grade
	ParlayLegIDs    []string
	Score           float64
	ScoreComputedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (n NormalizedPrediction) Validate() error {
	if strings.TrimSpace(n.DedupKey) == "" {
		return fmt.Errorf("normalized prediction dedup_key is required")
	}
	if strings.TrimSpace(n.MatchID) == "" {
		return fmt.Errorf("normalized prediction match_id is required")
	}
	if strings.TrimSpace(n.SourceSlug) == "" {
		return fmt.Errorf("normalized prediction source_slug is required")
	}
	return nil
}

// Graded reports whether the grading loop has already resolved this pick.
func (n NormalizedPrediction) Graded() bool {
	return n.Grade != nil
}

// Correct reports whether a graded pick counts as a win for accuracy
// purposes. Push and void picks are neither a win nor a loss.
func (n NormalizedPrediction) Correct() bool {
	return n.Grade != nil && *n.Grade == GradeWin
}
