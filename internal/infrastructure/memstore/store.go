// Package memstore implements the MedicineStore capability in process
// memory. It backs unit tests and the store-less development mode, and it
// is the reference implementation of substring matching: filters are
// case-insensitive containment checks over the medicines' derived
// lower-cased projections. It has no full-text index, so it never offers
// relevance mode.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/medisearch/backend/internal/domain"
)

// Store holds medicines in memory, keyed for upsert by lower-cased
// officialName.
type Store struct {
	mu        sync.RWMutex
	medicines []domain.Medicine
	byName    map[string]int
}

// New creates an empty store.
func New() *Store {
	return &Store{byName: make(map[string]int)}
}

// SupportsRelevance always reports false: substring matching is all this
// store can do.
func (s *Store) SupportsRelevance() bool { return false }

// Upsert inserts or overwrites the medicine with the same officialName.
func (s *Store) Upsert(_ context.Context, med *domain.Medicine) error {
	if med.ID == "" {
		med.ID = med.SourceID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(med.OfficialName)
	if i, ok := s.byName[key]; ok {
		s.medicines[i] = *med
		return nil
	}
	s.byName[key] = len(s.medicines)
	s.medicines = append(s.medicines, *med)
	return nil
}

// Find filters, sorts and paginates in memory.
func (s *Store) Find(_ context.Context, filter domain.FilterSpec, sortSpec domain.SortSpec, skip, limit int) ([]domain.Medicine, error) {
	s.mu.RLock()
	var matched []domain.Medicine
	for _, med := range s.medicines {
		if matches(med, filter) {
			matched = append(matched, med)
		}
	}
	s.mu.RUnlock()

	sortMedicines(matched, sortSpec)

	if skip >= len(matched) {
		return nil, nil
	}
	matched = matched[skip:]
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Count applies the same predicate Find uses.
func (s *Store) Count(_ context.Context, filter domain.FilterSpec) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, med := range s.medicines {
		if matches(med, filter) {
			n++
		}
	}
	return n, nil
}

// FindByID looks up a medicine by store id.
func (s *Store) FindByID(_ context.Context, id string) (*domain.Medicine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.medicines {
		if s.medicines[i].ID == id {
			med := s.medicines[i]
			return &med, nil
		}
	}
	return nil, domain.ErrNotFound
}

// FindByExactName matches officialName exactly, ignoring case.
func (s *Store) FindByExactName(_ context.Context, name string) (*domain.Medicine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i, ok := s.byName[strings.ToLower(name)]; ok {
		med := s.medicines[i]
		return &med, nil
	}
	return nil, domain.ErrNotFound
}

// Len returns the number of stored medicines.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.medicines)
}

func matches(med domain.Medicine, f domain.FilterSpec) bool {
	if f.DosageForm != nil && !matchField(med.DosageForm, *f.DosageForm) {
		return false
	}
	if f.Category != nil && !matchField(med.Category, *f.Category) {
		return false
	}
	if f.Manufacturer != nil && !matchField(med.Manufacturer.Name, *f.Manufacturer) {
		return false
	}
	if f.Ingredient != nil && !anyIngredient(med, *f.Ingredient) {
		return false
	}
	if f.MinPrice != nil && (med.Pricing.MRP == nil || *med.Pricing.MRP < *f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && (med.Pricing.MRP == nil || *med.Pricing.MRP > *f.MaxPrice) {
		return false
	}
	if f.Discontinued != nil && med.Discontinued != *f.Discontinued {
		return false
	}
	if f.Term != "" {
		term := strings.ToLower(f.Term)
		if !strings.Contains(med.NameLC, term) &&
			!strings.Contains(med.ManufacturerLC, term) &&
			!strings.Contains(med.CompositionTextLC, term) {
			return false
		}
	}
	return true
}

func matchField(value string, m domain.FieldMatch) bool {
	v := strings.ToLower(value)
	want := strings.ToLower(m.Value)
	if m.Kind == domain.MatchExact {
		return v == want
	}
	return strings.Contains(v, want)
}

func anyIngredient(med domain.Medicine, m domain.FieldMatch) bool {
	for _, ing := range med.ActiveIngredients {
		if matchField(ing.Name, m) {
			return true
		}
	}
	return false
}

func sortMedicines(meds []domain.Medicine, spec domain.SortSpec) {
	switch domain.SortMode(spec) {
	case domain.SortPriceAsc:
		sort.SliceStable(meds, func(i, j int) bool {
			return priceOf(meds[i]) < priceOf(meds[j])
		})
	case domain.SortPriceDesc:
		sort.SliceStable(meds, func(i, j int) bool {
			return priceOf(meds[i]) > priceOf(meds[j])
		})
	default:
		// Relevance degrades to name order here: there is no text
		// index to score against.
		sort.SliceStable(meds, func(i, j int) bool {
			return meds[i].NameLC < meds[j].NameLC
		})
	}
}

func priceOf(med domain.Medicine) float64 {
	if med.Pricing.MRP == nil {
		return 0
	}
	return *med.Pricing.MRP
}
