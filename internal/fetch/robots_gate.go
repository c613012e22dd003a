package fetch

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsGate caches each source's robots.txt and answers whether a given
// path may be fetched under the configured user agent, refreshing its
// cached copy once it goes stale.
type RobotsGate struct {
	mu        sync.Mutex
	groups    map[string]*cachedGroup
	userAgent string
	ttl       time.Duration
	fetch     func(robotsURL string) (*robotstxt.RobotsData, error)
}

type cachedGroup struct {
	data      *robotstxt.RobotsData
	fetchedAt time.Time
}

func NewRobotsGate(userAgent string, ttl time.Duration) *RobotsGate {
	g := &RobotsGate{
		groups:    make(map[string]*cachedGroup),
		userAgent: userAgent,
		ttl:       ttl,
	}
	g.fetch = g.fetchRobotsTxt
	return g
}

// Allowed reports whether rawURL may be fetched per the source's robots.txt,
// fetching and caching it on first use or once the TTL has elapsed. A
// robots.txt fetch failure fails open (allowed=true) since most sources in
// this domain either have no robots.txt or one that is permissive, and a
// transient fetch failure should not halt ingestion.
func (g *RobotsGate) Allowed(rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("robots: parse url %q: %w", rawURL, err)
	}
	origin := u.Scheme + "://" + u.Host

	group, err := g.groupFor(origin)
	if err != nil {
		return true, nil
	}
	return group.Test(u.Path), nil
}

func (g *RobotsGate) groupFor(origin string) (*robotstxt.Group, error) {
	g.mu.Lock()
	cached, ok := g.groups[origin]
	stale := !ok || time.Since(cached.fetchedAt) > g.ttl
	g.mu.Unlock()

	if stale {
		data, err := g.fetch(origin + "/robots.txt")
		if err != nil {
			return nil, err
		}
		g.mu.Lock()
		g.groups[origin] = &cachedGroup{data: data, fetchedAt: time.Now()}
		g.mu.Unlock()
		cached = g.groups[origin]
	}
	return cached.data.FindGroup(g.userAgent), nil
}

func (g *RobotsGate) fetchRobotsTxt(robotsURL string) (*robotstxt.RobotsData, error) {
	resp, err := http.Get(robotsURL)
	if err != nil {
		return nil, fmt.Errorf("robots: GET %s: %w", robotsURL, err)
	}
	defer resp.Body.Close()
	return robotstxt.FromResponse(resp)
}
