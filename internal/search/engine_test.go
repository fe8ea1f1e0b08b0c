package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/medisearch/backend/internal/domain"
	"github.com/medisearch/backend/internal/infrastructure/cache"
)

// fakeStore serves a fixed slice of medicines and counts how often it is
// asked, so tests can observe whether the cache absorbed a request.
type fakeStore struct {
	medicines []domain.Medicine
	relevance bool
	findErr   error
	countErr  error

	findCalls  int
	countCalls int
	lastFilter domain.FilterSpec
	lastSort   domain.SortSpec
}

func (f *fakeStore) Find(_ context.Context, filter domain.FilterSpec, sort domain.SortSpec, skip, limit int) ([]domain.Medicine, error) {
	f.findCalls++
	f.lastFilter = filter
	f.lastSort = sort
	if f.findErr != nil {
		return nil, f.findErr
	}
	if skip >= len(f.medicines) {
		return nil, nil
	}
	end := skip + limit
	if end > len(f.medicines) {
		end = len(f.medicines)
	}
	return f.medicines[skip:end], nil
}

func (f *fakeStore) Count(_ context.Context, filter domain.FilterSpec) (int64, error) {
	f.countCalls++
	if f.countErr != nil {
		return 0, f.countErr
	}
	return int64(len(f.medicines)), nil
}

func (f *fakeStore) FindByID(context.Context, string) (*domain.Medicine, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeStore) FindByExactName(context.Context, string) (*domain.Medicine, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeStore) Upsert(context.Context, *domain.Medicine) error { return nil }

func (f *fakeStore) SupportsRelevance() bool { return f.relevance }

func catalog(n int) []domain.Medicine {
	meds := make([]domain.Medicine, n)
	for i := range meds {
		meds[i] = domain.Medicine{OfficialName: fmt.Sprintf("Medicine %03d", i)}
	}
	return meds
}

func mustQuery(t *testing.T, p domain.RawParams) domain.SearchQuery {
	t.Helper()
	q, err := domain.NewSearchQuery(p, 50)
	if err != nil {
		t.Fatalf("NewSearchQuery: %v", err)
	}
	return q
}

func TestSearchCacheHitSkipsStore(t *testing.T) {
	store := &fakeStore{medicines: catalog(5)}
	engine := NewEngine(store, cache.New[domain.ResultPage](10, time.Minute), Config{})
	q := mustQuery(t, domain.RawParams{Term: "medicine"})

	first, err := engine.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("first search: %v", err)
	}
	second, err := engine.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("second search: %v", err)
	}

	if store.findCalls != 1 {
		t.Errorf("store queried %d times, want 1", store.findCalls)
	}
	if len(first.Items) != len(second.Items) || first.HasMore != second.HasMore {
		t.Errorf("cached page differs: %+v vs %+v", first, second)
	}
}

func TestSearchCacheExpiryRefetches(t *testing.T) {
	store := &fakeStore{medicines: catalog(3)}
	engine := NewEngine(store, cache.New[domain.ResultPage](10, 10*time.Millisecond), Config{})
	q := mustQuery(t, domain.RawParams{Term: "medicine"})

	if _, err := engine.Search(context.Background(), q); err != nil {
		t.Fatalf("first search: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if _, err := engine.Search(context.Background(), q); err != nil {
		t.Fatalf("second search: %v", err)
	}

	if store.findCalls != 2 {
		t.Errorf("store queried %d times after expiry, want 2", store.findCalls)
	}
}

func TestSearchPaginationBoundary(t *testing.T) {
	store := &fakeStore{medicines: catalog(25)}
	engine := NewEngine(store, cache.New[domain.ResultPage](10, time.Minute), Config{})

	page1, err := engine.Search(context.Background(), mustQuery(t, domain.RawParams{Limit: "10", Page: "1"}))
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if len(page1.Items) != 10 || !page1.HasMore {
		t.Errorf("page 1 = %d items, hasMore=%v; want 10 items, hasMore=true", len(page1.Items), page1.HasMore)
	}

	page3, err := engine.Search(context.Background(), mustQuery(t, domain.RawParams{Limit: "10", Page: "3"}))
	if err != nil {
		t.Fatalf("page 3: %v", err)
	}
	if len(page3.Items) != 5 || page3.HasMore {
		t.Errorf("page 3 = %d items, hasMore=%v; want 5 items, hasMore=false", len(page3.Items), page3.HasMore)
	}
}

func TestSearchEmptyPageBeyondEnd(t *testing.T) {
	store := &fakeStore{medicines: catalog(5)}
	engine := NewEngine(store, cache.New[domain.ResultPage](10, time.Minute), Config{})

	page, err := engine.Search(context.Background(), mustQuery(t, domain.RawParams{Limit: "10", Page: "4"}))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Items == nil {
		t.Error("items is nil, want empty slice")
	}
	if len(page.Items) != 0 || page.HasMore {
		t.Errorf("page = %d items, hasMore=%v; want 0 items, hasMore=false", len(page.Items), page.HasMore)
	}
}

func TestSearchWithTotal(t *testing.T) {
	store := &fakeStore{medicines: catalog(25)}
	engine := NewEngine(store, cache.New[domain.ResultPage](10, time.Minute), Config{})

	page, err := engine.Search(context.Background(), mustQuery(t, domain.RawParams{Limit: "10", Count: "true"}))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Total == nil || *page.Total != 25 {
		t.Fatalf("total = %v, want 25", page.Total)
	}
	if !page.HasMore {
		t.Error("hasMore = false, want true")
	}
	if store.countCalls != 1 {
		t.Errorf("count called %d times, want 1", store.countCalls)
	}
}

func TestSearchWithoutTotalSkipsCount(t *testing.T) {
	store := &fakeStore{medicines: catalog(25)}
	engine := NewEngine(store, cache.New[domain.ResultPage](10, time.Minute), Config{})

	page, err := engine.Search(context.Background(), mustQuery(t, domain.RawParams{Limit: "10"}))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Total != nil {
		t.Errorf("total = %v, want nil", page.Total)
	}
	if store.countCalls != 0 {
		t.Errorf("count called %d times, want 0", store.countCalls)
	}
}

func TestSearchModeSelection(t *testing.T) {
	tests := []struct {
		name      string
		relevance bool
		enabled   bool
		params    domain.RawParams
		wantMode  domain.SearchMode
		wantSort  domain.SortSpec
	}{
		{
			name:      "relevance store and term",
			relevance: true,
			enabled:   true,
			params:    domain.RawParams{Term: "amox"},
			wantMode:  domain.ModeRelevance,
			wantSort:  domain.SortSpec(domain.SortRelevance),
		},
		{
			name:      "store without full text",
			relevance: false,
			enabled:   true,
			params:    domain.RawParams{Term: "amox"},
			wantMode:  domain.ModeSubstring,
			wantSort:  domain.SortSpec(domain.SortName),
		},
		{
			name:      "relevance disabled by config",
			relevance: true,
			enabled:   false,
			params:    domain.RawParams{Term: "amox"},
			wantMode:  domain.ModeSubstring,
			wantSort:  domain.SortSpec(domain.SortName),
		},
		{
			name:      "fuzzy forces substring",
			relevance: true,
			enabled:   true,
			params:    domain.RawParams{Term: "amox", Fuzzy: "true"},
			wantMode:  domain.ModeSubstring,
			wantSort:  domain.SortSpec(domain.SortName),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{medicines: catalog(3), relevance: tt.relevance}
			engine := NewEngine(store, cache.New[domain.ResultPage](10, time.Minute), Config{RelevanceEnabled: tt.enabled})

			if _, err := engine.Search(context.Background(), mustQuery(t, tt.params)); err != nil {
				t.Fatalf("search: %v", err)
			}
			if store.lastFilter.Mode != tt.wantMode {
				t.Errorf("mode = %v, want %v", store.lastFilter.Mode, tt.wantMode)
			}
			if store.lastSort != tt.wantSort {
				t.Errorf("sort = %v, want %v", store.lastSort, tt.wantSort)
			}
		})
	}
}

func TestSearchStoreErrors(t *testing.T) {
	t.Run("find failure", func(t *testing.T) {
		store := &fakeStore{findErr: errors.New("connection reset")}
		engine := NewEngine(store, cache.New[domain.ResultPage](10, time.Minute), Config{})

		_, err := engine.Search(context.Background(), mustQuery(t, domain.RawParams{Term: "amox"}))
		if !errors.Is(err, domain.ErrStoreUnavailable) {
			t.Errorf("err = %v, want ErrStoreUnavailable", err)
		}
	})

	t.Run("count failure", func(t *testing.T) {
		store := &fakeStore{medicines: catalog(3), countErr: errors.New("connection reset")}
		engine := NewEngine(store, cache.New[domain.ResultPage](10, time.Minute), Config{})

		_, err := engine.Search(context.Background(), mustQuery(t, domain.RawParams{Term: "amox", Count: "true"}))
		if !errors.Is(err, domain.ErrStoreUnavailable) {
			t.Errorf("err = %v, want ErrStoreUnavailable", err)
		}
	})

	t.Run("failures are not cached", func(t *testing.T) {
		store := &fakeStore{findErr: errors.New("connection reset")}
		engine := NewEngine(store, cache.New[domain.ResultPage](10, time.Minute), Config{})
		q := mustQuery(t, domain.RawParams{Term: "amox"})

		_, _ = engine.Search(context.Background(), q)
		store.findErr = nil
		store.medicines = catalog(2)

		page, err := engine.Search(context.Background(), q)
		if err != nil {
			t.Fatalf("search after recovery: %v", err)
		}
		if len(page.Items) != 2 {
			t.Errorf("got %d items after recovery, want 2", len(page.Items))
		}
	})
}
