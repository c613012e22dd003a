package fetch

import (
	"context"
	"fmt"
	"time"
)

// BrowserSession abstracts the headless-browser driver so that fetch stays
// free of a hard dependency on any one browser automation library; a real
// implementation wraps whichever driver the deployment ships with.
type BrowserSession interface {
	// Navigate loads url and returns the page's rendered HTML once the
	// network has gone idle or waitFor has elapsed, whichever is first.
	Navigate(ctx context.Context, url string, waitFor time.Duration) (html string, statusCode int, err error)
	Close() error
}

// BrowserFetcher fetches JS-rendered picks boards through a pooled
// BrowserSession, for sources an HTTPFetcher cannot render.
type BrowserFetcher struct {
	sessions chan BrowserSession
	waitFor  time.Duration
}

func NewBrowserFetcher(sessions []BrowserSession, waitFor time.Duration) *BrowserFetcher {
	pool := make(chan BrowserSession, len(sessions))
	for _, s := range sessions {
		pool <- s
	}
	return &BrowserFetcher{sessions: pool, waitFor: waitFor}
}

func (f *BrowserFetcher) Fetch(ctx context.Context, url, _ string) (Result, error) {
	select {
	case session := <-f.sessions:
		defer func() { f.sessions <- session }()
		html, status, err := session.Navigate(ctx, url, f.waitFor)
		if err != nil {
			return Result{}, fmt.Errorf("fetch: browser navigate %s: %w", url, err)
		}
		return Result{
			URL:        url,
			Body:       []byte(html),
			StatusCode: status,
			FetchedAt:  time.Now().UTC(),
		}, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
