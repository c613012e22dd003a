// Package team models canonical sports franchises and the alias table the
// normalizer uses to resolve a scraped team name back to one of them.
package team

import (
	"fmt"
	"strings"
	"time"
)

// Team is a canonical franchise within one sport.
type Team struct {
	ID           string
	Sport        string
	Name         string
	Abbreviation string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(t.Sport) == "" {
		return fmt.Errorf("team sport is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	return nil
}

// Alias is one known spelling/nickname variant of a team as it appears on a
// source site, scoped to a sport since the same string can mean different
// teams across sports (e.g. "Giants" in NFL vs. MLB).
type Alias struct {
	Sport  string
	Alias  string
	TeamID string
}

func (a Alias) Validate() error {
	if strings.TrimSpace(a.Sport) == "" {
		return fmt.Errorf("alias sport is required")
	}
	if strings.TrimSpace(a.Alias) == "" {
		return fmt.Errorf("alias text is required")
	}
	if strings.TrimSpace(a.TeamID) == "" {
		return fmt.Errorf("alias team id is required")
	}
	return nil
}

// NormalizeKey lowercases and collapses whitespace so alias lookups are
// insensitive to case and incidental spacing differences between sources.
func NormalizeKey(v string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(v))), " ")
}
