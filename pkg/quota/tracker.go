package quota

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// RapidAPI quota headers.
const (
	HeaderRequestsRemaining = "X-RateLimit-Requests-Remaining"
	HeaderRequestsReset     = "X-RateLimit-Requests-Reset"
)

// Prometheus metrics for quota tracking.
var (
	quotaRequestsRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "events_api_quota_requests_remaining",
		Help: "Number of requests remaining in the current API quota window",
	})

	quotaBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "events_api_quota_blocks_total",
		Help: "Total number of requests short-circuited due to exhausted quota",
	})
)

// Tracker holds the in-process quota state. The deployment model is one
// interactive process per session, so no cross-process sharing is needed.
type Tracker struct {
	mu     sync.RWMutex
	state  State
	logger zerolog.Logger
	now    func() time.Time
}

// NewTracker creates a quota tracker.
func NewTracker(logger zerolog.Logger) *Tracker {
	return &Tracker{
		logger: logger,
		now:    time.Now,
	}
}

// UpdateFromHeaders refreshes the quota state from API response headers.
// Responses without quota headers leave the state untouched.
func (t *Tracker) UpdateFromHeaders(headers http.Header) {
	remainStr := headers.Get(HeaderRequestsRemaining)
	if remainStr == "" {
		return
	}

	remaining, err := strconv.Atoi(remainStr)
	if err != nil {
		t.logger.Debug().
			Str("header", remainStr).
			Msg("Unparseable quota header ignored")
		return
	}

	now := t.now()
	resetAt := now
	if resetStr := headers.Get(HeaderRequestsReset); resetStr != "" {
		if seconds, err := strconv.Atoi(resetStr); err == nil {
			resetAt = now.Add(time.Duration(seconds) * time.Second)
		}
	}

	t.mu.Lock()
	t.state = State{
		RequestsRemaining: remaining,
		ResetAt:           resetAt,
		LastUpdate:        now,
	}
	t.mu.Unlock()

	quotaRequestsRemaining.Set(float64(remaining))

	if remaining <= 0 {
		t.logger.Warn().
			Time("reset_at", resetAt).
			Msg("API request quota exhausted")
	}
}

// State returns a copy of the current quota state.
func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Exhausted reports whether the quota window is known to be spent.
func (t *Tracker) Exhausted() bool {
	t.mu.RLock()
	exhausted := t.state.Exhausted(t.now())
	t.mu.RUnlock()

	if exhausted {
		quotaBlocksTotal.Inc()
	}
	return exhausted
}

// SetClock overrides the tracker's clock (for testing).
func (t *Tracker) SetClock(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}
