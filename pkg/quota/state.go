// Package quota tracks the RapidAPI request quota from response headers so
// the client can fail fast instead of spending requests on a window that is
// already exhausted.
package quota

import (
	"time"
)

// State represents the most recently observed request-quota window.
type State struct {
	// RequestsRemaining is the number of requests left in the current window.
	// Extracted from the X-RateLimit-Requests-Remaining header.
	RequestsRemaining int `json:"requests_remaining"`

	// ResetAt is when the quota window resets. Calculated from the
	// X-RateLimit-Requests-Reset header (seconds until reset).
	ResetAt time.Time `json:"reset_at"`

	// LastUpdate is when this state was last refreshed from headers. A zero
	// value means no quota headers have been seen yet.
	LastUpdate time.Time `json:"last_update"`
}

// Observed reports whether any quota headers have been seen.
func (s *State) Observed() bool {
	return !s.LastUpdate.IsZero()
}

// Exhausted reports whether the window has no requests left and has not yet
// reset. Unobserved state is never exhausted.
func (s *State) Exhausted(now time.Time) bool {
	if !s.Observed() {
		return false
	}
	return s.RequestsRemaining <= 0 && now.Before(s.ResetAt)
}

// TimeUntilReset returns the duration until the window resets.
// Returns 0 if the reset time has already passed.
func (s *State) TimeUntilReset(now time.Time) time.Duration {
	duration := s.ResetAt.Sub(now)
	if duration < 0 {
		return 0
	}
	return duration
}
