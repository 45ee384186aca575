package cache

import (
	"fmt"
	"time"
)

// Category selects the freshness window for a cache entry.
type Category string

const (
	// CategoryStaticReference covers long-lived reference data (sports list,
	// country list). These change at most once per games edition.
	CategoryStaticReference Category = "static-reference"

	// CategoryListing covers event listings and search results.
	CategoryListing Category = "listing"

	// CategoryTodaySnapshot covers the today-events view, which changes as
	// sessions start and finish.
	CategoryTodaySnapshot Category = "today-snapshot"
)

// Policy maps categories to their TTL.
type Policy map[Category]time.Duration

// DefaultPolicy returns the standard freshness windows.
func DefaultPolicy() Policy {
	return Policy{
		CategoryStaticReference: 24 * time.Hour,
		CategoryListing:         10 * time.Minute,
		CategoryTodaySnapshot:   5 * time.Minute,
	}
}

// Validate checks that the policy is non-empty and all TTLs are positive.
// A zero TTL would make every read a miss and is not supported.
func (p Policy) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("ttl policy is empty")
	}
	for category, ttl := range p {
		if ttl <= 0 {
			return fmt.Errorf("ttl for category %q must be positive (got %v)", category, ttl)
		}
	}
	return nil
}

// TTL returns the freshness window for a category. Unknown categories fall
// back to the listing TTL so ad-hoc keys behave like short-lived listings.
func (p Policy) TTL(category Category) time.Duration {
	if ttl, ok := p[category]; ok {
		return ttl
	}
	if ttl, ok := p[CategoryListing]; ok {
		return ttl
	}
	return 10 * time.Minute
}
