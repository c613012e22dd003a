// Package normalize turns a RawPrediction into a NormalizedPrediction: it
// resolves team names to canonical team IDs, finds or creates the match
// the pick belongs to, and computes the dedup key used to collapse repeat
// scrapes of the same pick into one stored row.
package normalize

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pickline/aggregator/internal/domain/team"
)

// teamIdentityNamespace scopes the deterministic UUIDv5 auto-create mints
// for a newly seen raw team name, so repeated sightings of the same name
// under the same sport resolve to the same team id across fetches instead
// of growing a duplicate row every time.
var teamIdentityNamespace = uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")

// unboundedSports lists sports whose team universe isn't a fixed, curated
// roster. An unresolved raw name under one of these sports gets a team
// auto-created from the raw name itself; curated sports return null
// instead, since every legitimate team name should already have an alias.
var unboundedSports = map[string]bool{
	"soccer": true,
}

// TeamResolver maps a raw, site-specific team name string onto a canonical
// team ID, using the ordered algorithm: exact alias match, abbreviation
// match, then substring containment against known aliases (longest alias
// wins ties). Sports with an unbounded team space auto-create a team and
// seed alias for names that still don't resolve; curated sports give up.
type TeamResolver struct {
	mu       sync.RWMutex
	sport    string
	repo     team.Repository
	byAlias  map[string]string // normalized alias -> team id
	byAbbrev map[string]string // normalized abbreviation -> team id
}

func NewTeamResolver(sport string, repo team.Repository) *TeamResolver {
	return &TeamResolver{sport: sport, repo: repo}
}

// Refresh reloads the alias/team tables from the repository. Call it at
// startup and periodically, since new aliases are added as unresolved
// names get reviewed and mapped (or auto-created by Resolve itself).
func (r *TeamResolver) Refresh(ctx context.Context) error {
	teams, err := r.repo.ListBySport(ctx, r.sport)
	if err != nil {
		return fmt.Errorf("team resolver: list teams for %s: %w", r.sport, err)
	}
	aliases, err := r.repo.ListAliases(ctx, r.sport)
	if err != nil {
		return fmt.Errorf("team resolver: list aliases for %s: %w", r.sport, err)
	}

	byAbbrev := make(map[string]string, len(teams))
	for _, t := range teams {
		if t.Abbreviation == "" {
			continue
		}
		byAbbrev[team.NormalizeKey(t.Abbreviation)] = t.ID
	}
	byAlias := make(map[string]string, len(aliases))
	for _, a := range aliases {
		byAlias[team.NormalizeKey(a.Alias)] = a.TeamID
	}

	r.mu.Lock()
	r.byAlias = byAlias
	r.byAbbrev = byAbbrev
	r.mu.Unlock()
	return nil
}

// Resolve returns the canonical team ID for raw, or "" if it cannot be
// resolved (curated sport, no match found at any step). Auto-creation for
// unbounded sports can fail (repository error); in that case Resolve
// returns the error rather than silently giving up.
func (r *TeamResolver) Resolve(ctx context.Context, raw string) (teamID string, err error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}
	key := team.NormalizeKey(trimmed)

	if id, ok := r.lookup(key); ok {
		return id, nil
	}

	if !unboundedSports[r.sport] {
		return "", nil
	}
	return r.autoCreate(ctx, trimmed, key)
}

// lookup runs steps 1-4 of the resolve algorithm against the in-memory
// alias/abbreviation tables: exact alias, abbreviation, then substring
// containment against every known alias with the longest alias winning
// ties.
func (r *TeamResolver) lookup(key string) (teamID string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id, found := r.byAlias[key]; found {
		return id, true
	}
	if id, found := r.byAbbrev[key]; found {
		return id, true
	}

	var bestAlias, bestID string
	for alias, id := range r.byAlias {
		if alias == "" {
			continue
		}
		if !strings.Contains(key, alias) && !strings.Contains(alias, key) {
			continue
		}
		if len(alias) > len(bestAlias) {
			bestAlias, bestID = alias, id
		}
	}
	if bestID != "" {
		return bestID, true
	}
	return "", false
}

// autoCreate mints a team deterministically from the raw name (so repeat
// sightings converge on the same row via the repository's upsert-on-id),
// seeds its alias, and caches both into the in-memory tables so the next
// Resolve call for this name hits the fast path instead of auto-creating
// again.
func (r *TeamResolver) autoCreate(ctx context.Context, rawName, key string) (string, error) {
	id := uuid.NewSHA1(teamIdentityNamespace, []byte(r.sport+"|"+key)).String()

	t := team.Team{ID: id, Sport: r.sport, Name: rawName, Abbreviation: rawName}
	if err := r.repo.Create(ctx, t); err != nil {
		return "", fmt.Errorf("team resolver: auto-create team %q: %w", rawName, err)
	}
	alias := team.Alias{Sport: r.sport, Alias: key, TeamID: id}
	if err := r.repo.CreateAlias(ctx, alias); err != nil {
		return "", fmt.Errorf("team resolver: seed alias for %q: %w", rawName, err)
	}

	r.mu.Lock()
	if r.byAlias == nil {
		r.byAlias = make(map[string]string)
	}
	r.byAlias[key] = id
	if r.byAbbrev == nil {
		r.byAbbrev = make(map[string]string)
	}
	r.byAbbrev[key] = id
	r.mu.Unlock()

	return id, nil
}
