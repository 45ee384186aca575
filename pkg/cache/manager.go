package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// FetchFunc fetches a payload from the origin on a cache miss.
type FetchFunc func(ctx context.Context) (map[string]any, error)

// Result is what GetOrFetch hands to callers. Stale is true when the payload
// came from an expired durable entry because the origin was unreachable;
// callers must surface that distinction rather than presenting stale data as
// fresh.
type Result struct {
	Payload  map[string]any
	Stale    bool
	StoredAt time.Time
}

// Config holds the manager configuration.
type Config struct {
	// Policy maps categories to TTLs. Defaults to DefaultPolicy.
	Policy Policy

	// Durable is the durable tier (file, redis, leveldb). Required.
	Durable Store

	// Logger for cache events.
	Logger zerolog.Logger

	// Clock overrides time.Now, for tests.
	Clock func() time.Time
}

// Manager provides read-through caching over a fast in-process tier and a
// durable tier, with per-category freshness windows and stale fallback when
// the origin fails.
//
// Durable tier I/O errors are logged and treated as a tier-local miss; they
// never fail an operation that succeeded against the memory tier.
type Manager struct {
	policy  Policy
	memory  *MemoryStore
	durable Store
	logger  zerolog.Logger
	now     func() time.Time
}

// NewManager creates a cache manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Durable == nil {
		return nil, fmt.Errorf("durable store is required")
	}
	policy := cfg.Policy
	if policy == nil {
		policy = DefaultPolicy()
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("ttl policy: %w", err)
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	return &Manager{
		policy:  policy,
		memory:  NewMemoryStore(),
		durable: cfg.Durable,
		logger:  cfg.Logger,
		now:     now,
	}, nil
}

// Get returns the entry for key if a fresh one exists in either tier.
// The memory tier is checked first; a fresh durable entry is promoted into
// memory. Expired entries are reported as ErrNotFound but are not deleted:
// they remain available for the stale-fallback path, and eviction happens
// only via Clear.
//
// An entry stored under a different category than requested is treated as a
// miss rather than served under the wrong TTL policy.
func (m *Manager) Get(ctx context.Context, key string, category Category) (*Entry, error) {
	now := m.now()
	ttl := m.policy.TTL(category)

	entry, err := m.memory.Get(ctx, key)
	if err == nil && entry.Category == category && entry.Fresh(now, ttl) {
		CacheHits.WithLabelValues("memory").Inc()
		return entry, nil
	}

	entry, err = m.durable.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			CacheErrors.WithLabelValues("get").Inc()
			m.logger.Warn().Err(err).Str("key", key).Msg("Durable cache read failed")
		}
		CacheMisses.Inc()
		return nil, ErrNotFound
	}

	if entry.Category != category || !entry.Fresh(now, ttl) {
		CacheMisses.Inc()
		return nil, ErrNotFound
	}

	// Promote the durable hit so the next read stays in-process.
	if err := m.memory.Set(ctx, key, entry); err != nil {
		m.logger.Warn().Err(err).Str("key", key).Msg("Memory cache promote failed")
	}

	CacheHits.WithLabelValues("durable").Inc()
	return entry, nil
}

// Set stores the payload in both tiers with the current timestamp. A durable
// write failure is logged and counted but does not undo the memory write; the
// entry stays effective for the remainder of the process.
func (m *Manager) Set(ctx context.Context, key string, category Category, payload map[string]any) error {
	entry := &Entry{
		Payload:  payload,
		Category: category,
		StoredAt: m.now(),
	}

	if err := m.memory.Set(ctx, key, entry); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("memory cache set: %w", err)
	}

	if err := m.durable.Set(ctx, key, entry); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		m.logger.Warn().Err(err).Str("key", key).Msg("Durable cache write failed")
	}

	return nil
}

// Clear removes one entry, or every entry when key is empty, from both
// tiers. Clearing an absent key is a no-op.
func (m *Manager) Clear(ctx context.Context, key string) error {
	if key == "" {
		if err := m.memory.Clear(ctx); err != nil {
			CacheErrors.WithLabelValues("clear").Inc()
			return fmt.Errorf("memory cache clear: %w", err)
		}
		if err := m.durable.Clear(ctx); err != nil {
			CacheErrors.WithLabelValues("clear").Inc()
			m.logger.Warn().Err(err).Msg("Durable cache clear failed")
		}
		return nil
	}

	if err := m.memory.Delete(ctx, key); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("memory cache delete: %w", err)
	}
	if err := m.durable.Delete(ctx, key); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		m.logger.Warn().Err(err).Str("key", key).Msg("Durable cache delete failed")
	}
	return nil
}

// GetOrFetch is the composite read path: return a fresh cached payload, or
// fetch from the origin and cache the result. When the fetch fails, the most
// recent durable entry is served regardless of staleness, flagged Stale. Only
// when the origin fails and no durable entry exists does the error propagate.
func (m *Manager) GetOrFetch(ctx context.Context, key string, category Category, fetch FetchFunc) (*Result, error) {
	if entry, err := m.Get(ctx, key, category); err == nil {
		return &Result{Payload: entry.Payload, StoredAt: entry.StoredAt}, nil
	}

	payload, fetchErr := fetch(ctx)
	if fetchErr == nil {
		if err := m.Set(ctx, key, category, payload); err != nil {
			m.logger.Warn().Err(err).Str("key", key).Msg("Cache set after fetch failed")
		}
		return &Result{Payload: payload, StoredAt: m.now()}, nil
	}

	// Origin failure: fall back to the last durable entry, any staleness.
	entry, err := m.durable.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			CacheErrors.WithLabelValues("get").Inc()
			m.logger.Warn().Err(err).Str("key", key).Msg("Durable cache read failed during fallback")
		}
		return nil, fetchErr
	}
	if entry.Category != category {
		return nil, fetchErr
	}

	StaleFallbacks.Inc()
	m.logger.Warn().
		Err(fetchErr).
		Str("key", key).
		Dur("age", entry.Age(m.now())).
		Msg("Origin fetch failed, serving stale cache entry")

	return &Result{Payload: entry.Payload, Stale: true, StoredAt: entry.StoredAt}, nil
}

// ManagerStats aggregates per-tier store statistics.
type ManagerStats struct {
	Memory  Stats `json:"memory"`
	Durable Stats `json:"durable"`
}

// Stats returns entry counts and approximate sizes for both tiers. A durable
// stats failure is logged and reported as an empty durable tier.
func (m *Manager) Stats(ctx context.Context) ManagerStats {
	var stats ManagerStats

	if memStats, err := m.memory.Stats(ctx); err == nil {
		stats.Memory = memStats
	}

	durStats, err := m.durable.Stats(ctx)
	if err != nil {
		CacheErrors.WithLabelValues("stats").Inc()
		m.logger.Warn().Err(err).Msg("Durable cache stats failed")
		return stats
	}
	stats.Durable = durStats
	return stats
}

// Close releases the durable store's resources.
func (m *Manager) Close() error {
	return m.durable.Close()
}
