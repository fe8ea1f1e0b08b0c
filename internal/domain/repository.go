package domain

import (
	"context"
)

// MedicineStore is the persisted store capability the search engine runs
// against. Implementations must apply filter predicates by conjunction,
// honor sort/skip/limit, and answer Count over exactly the same predicate
// a Find with the same FilterSpec would use.
type MedicineStore interface {
	// Find returns up to limit medicines matching filter, ordered by
	// sort, after skipping skip matches.
	Find(ctx context.Context, filter FilterSpec, sort SortSpec, skip, limit int) ([]Medicine, error)

	// Count returns the number of medicines matching filter.
	Count(ctx context.Context, filter FilterSpec) (int64, error)

	// FindByID returns the medicine with the given store id, or
	// ErrNotFound.
	FindByID(ctx context.Context, id string) (*Medicine, error)

	// FindByExactName returns the medicine whose officialName equals name
	// case-insensitively, or ErrNotFound.
	FindByExactName(ctx context.Context, name string) (*Medicine, error)

	// Upsert inserts or replaces a medicine keyed by officialName.
	// Re-importing the same row overwrites fields, never duplicates.
	Upsert(ctx context.Context, med *Medicine) error

	// SupportsRelevance reports whether the store can execute
	// ModeRelevance queries. Engines fall back to ModeSubstring when it
	// cannot.
	SupportsRelevance() bool
}

// PincodeStore is the keyed lookup behind the pincode endpoint.
type PincodeStore interface {
	// FindByCode returns every post-office record for code. An empty
	// result is ErrNotFound.
	FindByCode(ctx context.Context, code string) ([]Pincode, error)
}
