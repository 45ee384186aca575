// Package cache provides two-tier read-through caching for API responses
// with per-category freshness windows and stale fallback.
package cache

import (
	"time"
)

// Entry represents a cached API response.
type Entry struct {
	// Payload is the decoded response body.
	Payload map[string]any `json:"payload"`

	// Category selects the TTL policy applied to this entry.
	Category Category `json:"category"`

	// StoredAt is when the entry was last populated by a successful fetch.
	StoredAt time.Time `json:"stored_at"`
}

// Age returns how long ago the entry was stored.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.StoredAt)
}

// Fresh reports whether the entry is within its freshness window.
func (e *Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return e.Age(now) < ttl
}

// clone returns a copy of the entry with its own payload map, so callers
// cannot mutate what the memory tier holds.
func (e *Entry) clone() *Entry {
	if e == nil {
		return nil
	}
	c := *e
	if e.Payload != nil {
		c.Payload = make(map[string]any, len(e.Payload))
		for k, v := range e.Payload {
			c.Payload[k] = v
		}
	}
	return &c
}
