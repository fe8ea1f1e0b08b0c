// Package search contains the query engine: it compiles validated search
// queries into store filter/sort specifications, answers them against a
// MedicineStore, and memoizes result pages in a short-lived cache.
package search

import (
	"github.com/medisearch/backend/internal/domain"
)

// ResolveMode chooses the search mode for one request. Relevance is used
// only when a term is present, the store offers full-text search, and the
// caller did not ask for fuzzy (substring) matching; everything else is
// substring mode. The decision is made exactly once per request and the two
// modes are never combined.
func ResolveMode(q domain.SearchQuery, relevanceAvailable bool) domain.SearchMode {
	if q.Term != "" && relevanceAvailable && !q.Fuzzy {
		return domain.ModeRelevance
	}
	return domain.ModeSubstring
}

// Build compiles a validated query and a resolved mode into the filter and
// sort specifications handed to the store.
//
// Field matcher semantics are fixed: dosageForm matches exactly
// (case-insensitive), category, manufacturer and ingredient match by
// case-insensitive containment. The free-text term expands inside the store
// to a (name OR manufacturer OR ingredient-name) containment disjunction in
// substring mode, or to a delegated full-text query in relevance mode; all
// other filters combine with it by conjunction.
func Build(q domain.SearchQuery, mode domain.SearchMode) (domain.FilterSpec, domain.SortSpec) {
	filter := domain.FilterSpec{
		Mode:         mode,
		Term:         q.Term,
		MinPrice:     q.MinPrice,
		MaxPrice:     q.MaxPrice,
		Discontinued: q.Discontinued,
	}
	if q.DosageForm != "" {
		filter.DosageForm = &domain.FieldMatch{Value: q.DosageForm, Kind: domain.MatchExact}
	}
	if q.Category != "" {
		filter.Category = &domain.FieldMatch{Value: q.Category, Kind: domain.MatchContains}
	}
	if q.Manufacturer != "" {
		filter.Manufacturer = &domain.FieldMatch{Value: q.Manufacturer, Kind: domain.MatchContains}
	}
	if q.Ingredient != "" {
		filter.Ingredient = &domain.FieldMatch{Value: q.Ingredient, Kind: domain.MatchContains}
	}

	return filter, resolveSort(q, mode)
}

// resolveSort maps the requested sort onto what the store can actually
// order by. Relevance ordering needs a term and relevance mode; without
// them it falls back to name ascending.
func resolveSort(q domain.SearchQuery, mode domain.SearchMode) domain.SortSpec {
	switch q.Sort {
	case domain.SortPriceAsc, domain.SortPriceDesc:
		return domain.SortSpec(q.Sort)
	case domain.SortRelevance:
		if q.Term != "" && mode == domain.ModeRelevance {
			return domain.SortSpec(domain.SortRelevance)
		}
		return domain.SortSpec(domain.SortName)
	default:
		return domain.SortSpec(domain.SortName)
	}
}
