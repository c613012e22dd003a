package scoring

import (
	"testing"
)

func maxedBreakdown() Breakdown {
	return Breakdown{
		SourceAgreement: 20,
		Confidence:      30,
		PredictedMargin: 25,
		ValueEV:         20,
		SourceAccuracy:  15,
		Alignment:       10,
		Form:            10,
		HeadToHead:      5,
		HomeAdvantage:   5,
	}
}

func TestBreakdown_SumMaxIsRawMax(t *testing.T) {
	if got := maxedBreakdown().Sum(); got != rawMax {
		t.Fatalf("maxed breakdown sum = %v, want %v", got, rawMax)
	}
}

func TestBreakdown_ZeroSumsToZero(t *testing.T) {
	if got := (Breakdown{}).Sum(); got != 0 {
		t.Fatalf("zero breakdown sum = %v, want 0", got)
	}
}

func TestForm_MonotonicInWinsAndStreak(t *testing.T) {
	low := Form(TeamForm{WinsLast10: 2, CurrentStreak: 0})
	high := Form(TeamForm{WinsLast10: 8, CurrentStreak: 5})
	if !(high > low) {
		t.Fatalf("expected higher wins/streak to score higher: low=%v high=%v", low, high)
	}
	if Form(TeamForm{WinsLast10: 10, CurrentStreak: 10}) != 10 {
		t.Fatalf("Form must cap at 10")
	}
}

func TestHeadToHead_RequiresMinimumMeetings(t *testing.T) {
	if got := HeadToHead(HeadToHead{Meetings: 1, FavSideWins: 1}); got != 0 {
		t.Fatalf("single meeting must score 0, got %v", got)
	}
	if got := HeadToHead(HeadToHead{Meetings: 10, FavSideWins: 9}); got != 5 {
		t.Fatalf("90%% dominance over 10 meetings must score 5, got %v", got)
	}
}

func TestHomeAdvantage_RequiresMinimumGames(t *testing.T) {
	if got := HomeAdvantage(VenueSplit{Games: 3, Wins: 3}); got != 0 {
		t.Fatalf("fewer than 5 games must score 0, got %v", got)
	}
	if got := HomeAdvantage(VenueSplit{Games: 8, Wins: 7}); got != 5 {
		t.Fatalf("87%% home record over 8 games must score 5, got %v", got)
	}
}
