package quota

import (
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestTracker_UpdateFromHeaders(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	tracker := NewTracker(zerolog.Nop())
	tracker.SetClock(fixedClock(now))

	headers := http.Header{}
	headers.Set(HeaderRequestsRemaining, "42")
	headers.Set(HeaderRequestsReset, "1800")
	tracker.UpdateFromHeaders(headers)

	state := tracker.State()
	if state.RequestsRemaining != 42 {
		t.Errorf("RequestsRemaining = %d, want 42", state.RequestsRemaining)
	}
	if !state.ResetAt.Equal(now.Add(30 * time.Minute)) {
		t.Errorf("ResetAt = %v, want %v", state.ResetAt, now.Add(30*time.Minute))
	}
	if !state.Observed() {
		t.Error("state should be observed after an update")
	}
}

func TestTracker_UpdateFromHeaders_MissingHeaders(t *testing.T) {
	tracker := NewTracker(zerolog.Nop())

	tracker.UpdateFromHeaders(http.Header{})

	state := tracker.State()
	if state.Observed() {
		t.Error("headers without quota fields should leave the state untouched")
	}
}

func TestTracker_UpdateFromHeaders_Unparseable(t *testing.T) {
	tracker := NewTracker(zerolog.Nop())

	headers := http.Header{}
	headers.Set(HeaderRequestsRemaining, "not-a-number")
	tracker.UpdateFromHeaders(headers)

	state := tracker.State()
	if state.Observed() {
		t.Error("unparseable quota header should be ignored")
	}
}

func TestTracker_Exhausted(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	tracker := NewTracker(zerolog.Nop())
	tracker.SetClock(fixedClock(now))

	// Never observed: not exhausted.
	if tracker.Exhausted() {
		t.Error("unobserved tracker should not report exhaustion")
	}

	headers := http.Header{}
	headers.Set(HeaderRequestsRemaining, "0")
	headers.Set(HeaderRequestsReset, "3600")
	tracker.UpdateFromHeaders(headers)

	if !tracker.Exhausted() {
		t.Error("tracker should report exhaustion with 0 remaining inside the window")
	}

	// Past the reset the window is considered open again.
	tracker.SetClock(fixedClock(now.Add(2 * time.Hour)))
	if tracker.Exhausted() {
		t.Error("tracker should not report exhaustion after the reset time")
	}
}
