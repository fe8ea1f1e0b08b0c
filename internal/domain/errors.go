package domain

import "errors"

var (
	// ErrNotFound is returned for exact lookups that match nothing.
	// It is a typed empty result, not a failure.
	ErrNotFound = errors.New("not found")

	// ErrInvalidQuery is returned when a search parameter is malformed
	// beyond repair (non-numeric page, unknown sort). The wrapping error
	// names the first offending field.
	ErrInvalidQuery = errors.New("invalid query parameter")

	// ErrStoreUnavailable is returned when the backing store cannot be
	// reached or fails mid-query. It is transient: callers may retry,
	// this package does not.
	ErrStoreUnavailable = errors.New("store unavailable")
)
