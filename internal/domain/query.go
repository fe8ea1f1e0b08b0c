package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// SortMode enumerates the supported sort orders.
type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
	SortName      SortMode = "name"
)

// SearchMode selects how a free-text term is matched. Exactly one mode is
// chosen per request; the two are never combined.
type SearchMode int

const (
	// ModeSubstring matches the term by case-insensitive containment
	// across name, manufacturer and ingredient names.
	ModeSubstring SearchMode = iota
	// ModeRelevance delegates the term to the store's full-text search
	// and orders by its relevance score.
	ModeRelevance
)

// MatchKind distinguishes exact from containment field matching.
type MatchKind int

const (
	MatchExact MatchKind = iota
	MatchContains
)

// FieldMatch is one compiled case-insensitive field filter.
type FieldMatch struct {
	Value string
	Kind  MatchKind
}

// FilterSpec is the store-agnostic filter produced by the query builder.
// All populated members combine by conjunction; the free-text Term expands
// inside the store according to Mode.
type FilterSpec struct {
	Mode         SearchMode
	Term         string
	DosageForm   *FieldMatch
	Category     *FieldMatch
	Manufacturer *FieldMatch
	Ingredient   *FieldMatch
	MinPrice     *float64
	MaxPrice     *float64
	Discontinued *bool
}

// SortSpec is the resolved sort order handed to the store alongside a
// FilterSpec. SortRelevance is only ever produced together with a non-empty
// Term in ModeRelevance.
type SortSpec SortMode

// RawParams is the loose, untyped parameter bag as it arrives at the HTTP
// boundary. NewSearchQuery is the only consumer.
type RawParams struct {
	Term         string
	DosageForm   string
	Category     string
	Manufacturer string
	Ingredient   string
	MinPrice     string
	MaxPrice     string
	Discontinued string
	Page         string
	Limit        string
	Sort         string
	Fuzzy        string
	Count        string
}

// SearchQuery is the validated, immutable representation of one search
// request. It is constructed once at the boundary; nothing downstream
// re-validates.
type SearchQuery struct {
	Term         string
	DosageForm   string
	Category     string
	Manufacturer string
	Ingredient   string
	MinPrice     *float64
	MaxPrice     *float64
	Discontinued *bool
	Page         int
	Limit        int
	Sort         SortMode
	Fuzzy        bool
	WithTotal    bool

	// Discarded names parameters that were supplied but malformed and
	// silently dropped (best-effort degradation). Tests assert on it.
	Discarded []string
}

// DefaultLimit applies when no limit parameter is supplied.
const DefaultLimit = 20

// NewSearchQuery validates a raw parameter bag into a SearchQuery.
//
// Malformed page, limit or sort values are rejected with ErrInvalidQuery
// naming the field: coercing them would silently change reported totals.
// Out-of-range numerics are clamped (page to >= 1, limit to [1, maxLimit]).
// Malformed optional filters (minPrice, maxPrice, discontinued, fuzzy,
// count) are dropped and recorded in Discarded rather than failing the
// request.
func NewSearchQuery(p RawParams, maxLimit int) (SearchQuery, error) {
	q := SearchQuery{
		Term:         strings.TrimSpace(p.Term),
		DosageForm:   strings.TrimSpace(p.DosageForm),
		Category:     strings.TrimSpace(p.Category),
		Manufacturer: strings.TrimSpace(p.Manufacturer),
		Ingredient:   strings.TrimSpace(p.Ingredient),
		Page:         1,
		Limit:        DefaultLimit,
		Sort:         SortRelevance,
	}

	if p.Page != "" {
		n, err := strconv.Atoi(p.Page)
		if err != nil {
			return SearchQuery{}, fmt.Errorf("%w: page", ErrInvalidQuery)
		}
		if n < 1 {
			n = 1
		}
		q.Page = n
	}

	if p.Limit != "" {
		n, err := strconv.Atoi(p.Limit)
		if err != nil {
			return SearchQuery{}, fmt.Errorf("%w: limit", ErrInvalidQuery)
		}
		q.Limit = n
	}
	if q.Limit < 1 {
		q.Limit = 1
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}

	if p.Sort != "" {
		switch SortMode(p.Sort) {
		case SortRelevance, SortPriceAsc, SortPriceDesc, SortName:
			q.Sort = SortMode(p.Sort)
		default:
			return SearchQuery{}, fmt.Errorf("%w: sort", ErrInvalidQuery)
		}
	}

	q.MinPrice = parsePriceBound(p.MinPrice, "minPrice", &q.Discarded)
	q.MaxPrice = parsePriceBound(p.MaxPrice, "maxPrice", &q.Discarded)

	if p.Discontinued != "" {
		if v, err := strconv.ParseBool(p.Discontinued); err == nil {
			q.Discontinued = &v
		} else {
			q.Discarded = append(q.Discarded, "discontinued")
		}
	}
	q.Fuzzy = parseFlag(p.Fuzzy, "fuzzy", &q.Discarded)
	q.WithTotal = parseFlag(p.Count, "count", &q.Discarded)

	return q, nil
}

func parsePriceBound(raw, name string, discarded *[]string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		*discarded = append(*discarded, name)
		return nil
	}
	return &v
}

func parseFlag(raw, name string, discarded *[]string) bool {
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*discarded = append(*discarded, name)
		return false
	}
	return v
}

// CacheKey serializes the query into its canonical cache key. The field
// order is fixed here, so two requests with the same values always produce
// the same key no matter how their parameters were ordered on the wire.
// Discarded parameters never reach the key: a dropped value is an absent
// value.
func (q SearchQuery) CacheKey() string {
	var b strings.Builder
	b.WriteString("search?q=")
	b.WriteString(strings.ToLower(q.Term))
	writeField(&b, "df", strings.ToLower(q.DosageForm))
	writeField(&b, "cat", strings.ToLower(q.Category))
	writeField(&b, "man", strings.ToLower(q.Manufacturer))
	writeField(&b, "ing", strings.ToLower(q.Ingredient))
	if q.MinPrice != nil {
		writeField(&b, "min", strconv.FormatFloat(*q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice != nil {
		writeField(&b, "max", strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64))
	}
	if q.Discontinued != nil {
		writeField(&b, "disc", strconv.FormatBool(*q.Discontinued))
	}
	writeField(&b, "page", strconv.Itoa(q.Page))
	writeField(&b, "limit", strconv.Itoa(q.Limit))
	writeField(&b, "sort", string(q.Sort))
	writeField(&b, "fuzzy", strconv.FormatBool(q.Fuzzy))
	writeField(&b, "count", strconv.FormatBool(q.WithTotal))
	return b.String()
}

func writeField(b *strings.Builder, name, value string) {
	b.WriteByte('&')
	b.WriteString(name)
	b.WriteByte('=')
	b.WriteString(value)
}

// ResultPage is one page of search results together with its pagination
// metadata. Total is only populated when the request asked for an explicit
// count.
type ResultPage struct {
	Items   []Medicine `json:"items"`
	Page    int        `json:"page"`
	Limit   int        `json:"limit"`
	Total   *int64     `json:"total,omitempty"`
	HasMore bool       `json:"hasMore"`
}
