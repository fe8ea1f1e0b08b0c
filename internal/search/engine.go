package search

import (
	"context"
	"fmt"

	"github.com/medisearch/backend/internal/domain"
	"github.com/medisearch/backend/internal/infrastructure/cache"
)

// Config holds configuration for the search engine.
type Config struct {
	// RelevanceEnabled gates full-text relevance search. When false every
	// request runs in substring mode regardless of store capability.
	RelevanceEnabled bool
}

// Engine answers search requests against a MedicineStore, with a
// per-engine result cache in front. The cache is a pure performance
// optimization: removing it changes latency, never results.
type Engine struct {
	store            domain.MedicineStore
	cache            *cache.LRU[domain.ResultPage]
	relevanceEnabled bool
}

// NewEngine creates a search engine with its dependencies injected. The
// cache instance is owned by the engine from here on.
func NewEngine(store domain.MedicineStore, pages *cache.LRU[domain.ResultPage], cfg Config) *Engine {
	return &Engine{
		store:            store,
		cache:            pages,
		relevanceEnabled: cfg.RelevanceEnabled,
	}
}

// Search answers one validated query.
//
// A cache hit returns the previously computed page unchanged, including
// its total and hasMore values. On a miss the engine fetches limit+1 items
// so hasMore falls out of the over-fetch without a count query; when the
// caller asked for an explicit total, a count runs against the same
// effective filter as the data fetch and hasMore is recomputed from it.
// Store failures propagate as ErrStoreUnavailable and are never cached or
// retried here.
func (e *Engine) Search(ctx context.Context, q domain.SearchQuery) (domain.ResultPage, error) {
	key := q.CacheKey()
	if page, ok := e.cache.Get(key); ok {
		return page, nil
	}

	mode := ResolveMode(q, e.relevanceEnabled && e.store.SupportsRelevance())
	filter, sort := Build(q, mode)
	skip := (q.Page - 1) * q.Limit

	items, err := e.store.Find(ctx, filter, sort, skip, q.Limit+1)
	if err != nil {
		return domain.ResultPage{}, fmt.Errorf("%w: find: %v", domain.ErrStoreUnavailable, err)
	}

	hasMore := len(items) > q.Limit
	if hasMore {
		items = items[:q.Limit]
	}
	if items == nil {
		items = []domain.Medicine{}
	}

	page := domain.ResultPage{
		Items:   items,
		Page:    q.Page,
		Limit:   q.Limit,
		HasMore: hasMore,
	}

	if q.WithTotal {
		total, err := e.store.Count(ctx, filter)
		if err != nil {
			return domain.ResultPage{}, fmt.Errorf("%w: count: %v", domain.ErrStoreUnavailable, err)
		}
		page.Total = &total
		page.HasMore = int64(skip+len(items)) < total
	}

	e.cache.Put(key, page)
	return page, nil
}
