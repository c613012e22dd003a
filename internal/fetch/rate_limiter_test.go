package fetch

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_WaitAdmitsWithinBudget(t *testing.T) {
	rl := NewRateLimiter()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := rl.Wait(ctx, "source-a", 600); err != nil {
		t.Fatalf("first Wait: unexpected error: %v", err)
	}
	if err := rl.Wait(ctx, "source-a", 600); err != nil {
		t.Fatalf("second Wait: unexpected error: %v", err)
	}
}

func TestRateLimiter_ZeroBudgetNeverBlocks(t *testing.T) {
	rl := NewRateLimiter()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := rl.Wait(ctx, "unbounded-source", 0); err != nil {
			t.Fatalf("Wait with zero budget returned error: %v", err)
		}
	}
}

func TestTimePerRequest(t *testing.T) {
	got := timePerRequest(60)
	if got != time.Second {
		t.Fatalf("timePerRequest(60) = %v, want 1s", got)
	}
}
