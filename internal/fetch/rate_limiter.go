package fetch

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter enforces a per-source requests-per-minute ceiling, keyed by
// source slug so one slow/aggressive source can't starve another's budget.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{limiters: make(map[string]*rate.Limiter)}
}

// Wait blocks until the source's limiter admits one more request, creating
// the limiter on first use with the given per-minute budget.
func (r *RateLimiter) Wait(ctx context.Context, sourceSlug string, perMinute int) error {
	if perMinute <= 0 {
		return nil
	}
	limiter := r.limiterFor(sourceSlug, perMinute)
	return limiter.Wait(ctx)
}

func (r *RateLimiter) limiterFor(sourceSlug string, perMinute int) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.limiters[sourceSlug]; ok {
		return l
	}
	every := rate.Every(timePerRequest(perMinute))
	l := rate.NewLimiter(every, 1)
	r.limiters[sourceSlug] = l
	return l
}
