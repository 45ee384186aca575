package cache

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates the requested key is absent (or expired, when
	// returned by the Manager).
	ErrNotFound = errors.New("cache entry not found")

	// ErrInvalidEntry indicates a stored entry could not be decoded.
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Stats describes the contents of a store.
type Stats struct {
	Entries   int   `json:"entries"`
	SizeBytes int64 `json:"size_bytes"`
}

// Store is a keyed entry store. Implementations never judge freshness:
// expired entries must remain readable so the Manager can serve them as a
// stale fallback when the origin is unreachable. Delete and Clear are
// idempotent; deleting a missing key is not an error.
type Store interface {
	// Get returns the entry for key, or ErrNotFound.
	Get(ctx context.Context, key string) (*Entry, error)

	// Set stores the entry under key, overwriting any previous entry.
	Set(ctx context.Context, key string, entry *Entry) error

	// Delete removes the entry for key.
	Delete(ctx context.Context, key string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Stats returns entry count and approximate size.
	Stats(ctx context.Context) (Stats, error)

	// Close releases any resources held by the store.
	Close() error
}
