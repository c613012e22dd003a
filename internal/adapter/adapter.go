// Package adapter defines the site-specific contract between a fetched
// snapshot and the normalization pipeline: turning raw HTML or JSON bytes
// into RawPrediction values the rest of the system never needs source
// knowledge to handle.
package adapter

import (
	"context"
	"fmt"
	"sync"

	"github.com/pickline/aggregator/internal/domain/prediction"
)

// FetchKind tells the scheduler whether a source's pages require a real
// browser (JS-rendered picks boards) or can be fetched with a plain HTTP
// client.
type FetchKind string

const (
	FetchKindHTTP    FetchKind = "http"
	FetchKindBrowser FetchKind = "browser"
)

// Config is the static, per-source configuration an Adapter is built from.
// Adapters are otherwise stateless: all request-scoped state lives in the
// arguments to DiscoverURLs/Parse.
type Config struct {
	SourceSlug string    `validate:"required"`
	Sport      string    `validate:"required"`
	BaseURL    string    `validate:"required,url"`
	FetchKind  FetchKind `validate:"required,oneof=http browser"`
}

// Adapter turns one source's pages into predictions. DiscoverURLs expands a
// seed listing page into the concrete pick-detail URLs to fetch next;
// sources that publish everything on one page return the seed URL
// unchanged. Parse is pure: given bytes and the URL they came from, it
// returns zero or more RawPrediction values with no side effects.
type Adapter interface {
	Config() Config
	DiscoverURLs(ctx context.Context, seedBody []byte, seedURL string) ([]string, error)
	Parse(ctx context.Context, body []byte, sourceURL string) ([]prediction.RawPrediction, error)
}

// Registry is the process-wide set of known adapters, keyed by source slug.
// It is populated at startup by explicit Register calls (see
// app.registerAdapters) and read by the worker pool.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.Config().SourceSlug] = a
}

func (r *Registry) Get(sourceSlug string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[sourceSlug]
	if !ok {
		return nil, fmt.Errorf("adapter: no adapter registered for source %q", sourceSlug)
	}
	return a, nil
}

func (r *Registry) Slugs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slugs := make([]string, 0, len(r.adapters))
	for slug := range r.adapters {
		slugs = append(slugs, slug)
	}
	return slugs
}
