package normalize

import (
	"context"
	"testing"

	"github.com/pickline/aggregator/internal/domain/team"
)

type fakeTeamRepo struct {
	teams   []team.Team
	aliases []team.Alias
}

func (f *fakeTeamRepo) ListBySport(_ context.Context, _ string) ([]team.Team, error) { return f.teams, nil }
func (f *fakeTeamRepo) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	for _, t := range f.teams {
		if t.ID == teamID {
			return t, true, nil
		}
	}
	return team.Team{}, false, nil
}
func (f *fakeTeamRepo) Create(_ context.Context, t team.Team) error {
	f.teams = append(f.teams, t)
	return nil
}
func (f *fakeTeamRepo) ListAliases(_ context.Context, _ string) ([]team.Alias, error) {
	return f.aliases, nil
}
func (f *fakeTeamRepo) CreateAlias(_ context.Context, a team.Alias) error {
	f.aliases = append(f.aliases, a)
	return nil
}

func TestTeamResolver_ResolvesByAliasAndAbbreviation(t *testing.T) {
	repo := &fakeTeamRepo{
		teams: []team.Team{
			{ID: "t1", Sport: "nba", Name: "Boston Celtics", Abbreviation: "BOS"},
			{ID: "t2", Sport: "nba", Name: "Los Angeles Lakers", Abbreviation: "LAL"},
		},
		aliases: []team.Alias{
			{Sport: "nba", Alias: "Celtics", TeamID: "t1"},
			{Sport: "nba", Alias: "LA Lakers", TeamID: "t2"},
		},
	}
	resolver := NewTeamResolver("nba", repo)
	if err := resolver.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if id, err := resolver.Resolve(context.Background(), "Celtics"); err != nil || id != "t1" {
		t.Fatalf("Resolve(Celtics) = (%s, %v), want t1/nil", id, err)
	}
	if id, err := resolver.Resolve(context.Background(), "  celtics  "); err != nil || id != "t1" {
		t.Fatalf("Resolve(celtics, whitespace/case) = (%s, %v), want t1/nil", id, err)
	}
	if id, err := resolver.Resolve(context.Background(), "bos"); err != nil || id != "t1" {
		t.Fatalf("Resolve(bos abbreviation) = (%s, %v), want t1/nil", id, err)
	}
	if id, err := resolver.Resolve(context.Background(), "LA Lakers"); err != nil || id != "t2" {
		t.Fatalf("Resolve(LA Lakers alias) = (%s, %v), want t2/nil", id, err)
	}
	if id, err := resolver.Resolve(context.Background(), "Miami Heat"); err != nil || id != "" {
		t.Fatalf("Resolve(Miami Heat) = (%s, %v), want empty/nil for a curated sport", id, err)
	}
}

func TestTeamResolver_SubstringFallbackTakesLongestAlias(t *testing.T) {
	repo := &fakeTeamRepo{
		teams: []team.Team{{ID: "t1", Sport: "nba", Name: "Lakers", Abbreviation: "LAL"}},
		aliases: []team.Alias{
			{Sport: "nba", Alias: "Lakers", TeamID: "t1"},
			{Sport: "nba", Alias: "LA", TeamID: "t1"},
		},
	}
	resolver := NewTeamResolver("nba", repo)
	if err := resolver.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if id, err := resolver.Resolve(context.Background(), "LA Lakers"); err != nil || id != "t1" {
		t.Fatalf("Resolve(LA Lakers) via substring = (%s, %v), want t1/nil", id, err)
	}
}

func TestTeamResolver_CuratedSportReturnsEmptyWhenUnresolved(t *testing.T) {
	resolver := NewTeamResolver("nfl", &fakeTeamRepo{})
	if err := resolver.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	id, err := resolver.Resolve(context.Background(), "Some New Expansion Team")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id != "" {
		t.Fatalf("curated sport must not auto-create, got id %q", id)
	}
}

func TestTeamResolver_UnboundedSportAutoCreatesAndCaches(t *testing.T) {
	repo := &fakeTeamRepo{}
	resolver := NewTeamResolver("soccer", repo)
	if err := resolver.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	first, err := resolver.Resolve(context.Background(), "FC Nordic United")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if first == "" {
		t.Fatal("unbounded sport must auto-create a team id")
	}
	if len(repo.teams) != 1 || len(repo.aliases) != 1 {
		t.Fatalf("expected one auto-created team and alias, got %d teams, %d aliases", len(repo.teams), len(repo.aliases))
	}

	second, err := resolver.Resolve(context.Background(), "fc nordic united")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if second != first {
		t.Fatalf("repeat sighting of the same raw name must resolve to the same id, got %q then %q", first, second)
	}
	if len(repo.teams) != 1 {
		t.Fatalf("repeat sighting must not auto-create a second team, got %d", len(repo.teams))
	}
}
