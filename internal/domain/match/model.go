// Package match models one scheduled or completed sporting event that
// predictions attach to.
package match

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusFinal     Status = "final"
	StatusCancelled Status = "cancelled"
)

// Match is the canonical event a RawPrediction is ultimately attached to,
// identified by (sport, home team, away team, date) once normalized.
type Match struct {
	ID         string
	Sport      string
	HomeTeamID string
	AwayTeamID string
	// HomeTeamName/AwayTeamName are carried for matches where the team
	// resolver could not map a side onto a curated Team row (unbounded
	// sports, or an unresolved alias logged for operator review).
	HomeTeamName string
	AwayTeamName string
	StartTime    time.Time
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (m Match) Validate() error {
	if strings.TrimSpace(m.Sport) == "" {
		return fmt.Errorf("match sport is required")
	}
	if m.StartTime.IsZero() {
		return fmt.Errorf("match start_time is required")
	}
	if strings.TrimSpace(m.HomeTeamID) == "" && strings.TrimSpace(m.HomeTeamName) == "" {
		return fmt.Errorf("match home team is required")
	}
	if strings.TrimSpace(m.AwayTeamID) == "" && strings.TrimSpace(m.AwayTeamName) == "" {
		return fmt.Errorf("match away team is required")
	}
	return nil
}

// NormalizeStatus maps loose status strings from adapters onto the closed
// Status enum, defaulting unknown values to Scheduled the way the original
// fixture ingestion pipeline defaulted unknown provider statuses.
func NormalizeStatus(raw string) Status {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "LIVE", "IN_PLAY", "INPLAY":
		return StatusLive
	case "FINAL", "FT", "FINISHED", "ENDED":
		return StatusFinal
	case "CANCELLED", "CANCELED", "POSTPONED":
		return StatusCancelled
	case "", "SCHEDULED", "NS", "NOT_STARTED":
		return StatusScheduled
	default:
		return StatusScheduled
	}
}

// DateKey is the calendar date (in the match's own local sense, UTC here)
// used as part of the match identity the normalizer resolves against.
func (m Match) DateKey() string {
	return m.StartTime.UTC().Format("2006-01-02")
}
