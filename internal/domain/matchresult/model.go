// Package matchresult models the final, graded outcome of a match — the
// input the grading loop compares each prediction against.
package matchresult

import (
	"fmt"
	"time"
)

// Result is the settled score and derived outcomes for one match, recorded
// once a source (or the matches table itself, once status flips to final)
// reports a final score.
type Result struct {
	MatchID      string
	HomeScore    int
	AwayScore    int
	TotalPoints  int
	Margin       int // HomeScore - AwayScore, positive favors home
	WinningSide  string
	SettledAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r Result) Validate() error {
	if r.MatchID == "" {
		return fmt.Errorf("match result match_id is required")
	}
	if r.HomeScore < 0 || r.AwayScore < 0 {
		return fmt.Errorf("match result scores must be non-negative")
	}
	return nil
}

// Derive fills TotalPoints, Margin, and WinningSide from the raw scores,
// mirroring how the fixture ingestion pipeline derived aggregate fields
// from provider-reported scores rather than trusting the provider to send
// them directly.
func Derive(matchID string, homeScore, awayScore int, settledAt time.Time) Result {
	winningSide := "draw"
	switch {
	case homeScore > awayScore:
		winningSide = "home"
	case awayScore > homeScore:
		winningSide = "away"
	}
	return Result{
		MatchID:     matchID,
		HomeScore:   homeScore,
		AwayScore:   awayScore,
		TotalPoints: homeScore + awayScore,
		Margin:      homeScore - awayScore,
		WinningSide: winningSide,
		SettledAt:   settledAt,
	}
}
