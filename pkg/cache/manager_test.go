package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeClock is an adjustable clock for expiry tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// brokenStore fails every operation, simulating an unavailable durable tier.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (*Entry, error) {
	return nil, fmt.Errorf("disk unavailable")
}
func (brokenStore) Set(context.Context, string, *Entry) error { return fmt.Errorf("disk unavailable") }
func (brokenStore) Delete(context.Context, string) error      { return fmt.Errorf("disk unavailable") }
func (brokenStore) Clear(context.Context) error               { return fmt.Errorf("disk unavailable") }
func (brokenStore) Stats(context.Context) (Stats, error)      { return Stats{}, fmt.Errorf("disk unavailable") }
func (brokenStore) Close() error                              { return nil }

func setupManager(t *testing.T, clock *fakeClock) (*Manager, *FileStore) {
	t.Helper()

	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	manager, err := NewManager(Config{
		Durable: store,
		Logger:  zerolog.Nop(),
		Clock:   clock.Now,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return manager, store
}

func TestNewManager_Validation(t *testing.T) {
	if _, err := NewManager(Config{}); err == nil {
		t.Error("NewManager without durable store should return error")
	}

	if _, err := NewManager(Config{
		Durable: NewMemoryStore(),
		Policy:  Policy{CategoryListing: 0},
	}); err == nil {
		t.Error("NewManager with zero TTL should return error")
	}
}

// Round-trip: after Set, an immediate Get returns the payload unchanged.
func TestManager_SetThenGet(t *testing.T) {
	clock := newFakeClock()
	manager, _ := setupManager(t, clock)
	ctx := context.Background()

	payload := map[string]any{"success": true, "total": float64(16)}
	if err := manager.Set(ctx, "events:sports", CategoryStaticReference, payload); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	entry, err := manager.Get(ctx, "events:sports", CategoryStaticReference)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry.Payload["success"] != true || entry.Payload["total"] != float64(16) {
		t.Errorf("payload mismatch: %v", entry.Payload)
	}
}

// Cold cache: Get on an empty cache reports absence; after Set, the entry is
// served within the TTL window.
func TestManager_ColdCacheScenario(t *testing.T) {
	clock := newFakeClock()
	manager, _ := setupManager(t, clock)
	ctx := context.Background()

	if _, err := manager.Get(ctx, "sports", CategoryStaticReference); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on cold cache, got %v", err)
	}

	payload := map[string]any{"success": true, "sports": []any{}}
	if err := manager.Set(ctx, "sports", CategoryStaticReference, payload); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	clock.Advance(23 * time.Hour) // still inside the 24h window
	entry, err := manager.Get(ctx, "sports", CategoryStaticReference)
	if err != nil {
		t.Fatalf("Get within TTL failed: %v", err)
	}
	if entry.Payload["success"] != true {
		t.Errorf("payload mismatch: %v", entry.Payload)
	}
}

// Expiry law: once past the TTL, plain Get reports absence.
func TestManager_Get_Expired(t *testing.T) {
	clock := newFakeClock()
	manager, _ := setupManager(t, clock)
	ctx := context.Background()

	if err := manager.Set(ctx, "events", CategoryListing, map[string]any{"v": float64(1)}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	clock.Advance(11 * time.Minute) // past the 10m listing TTL

	if _, err := manager.Get(ctx, "events", CategoryListing); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for expired entry, got %v", err)
	}
}

// Expired entries are not deleted by reads; they stay in the durable tier
// for the fallback path.
func TestManager_Get_ExpiredEntrySurvives(t *testing.T) {
	clock := newFakeClock()
	manager, store := setupManager(t, clock)
	ctx := context.Background()

	if err := manager.Set(ctx, "events", CategoryListing, map[string]any{"v": float64(1)}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	clock.Advance(time.Hour)

	_, _ = manager.Get(ctx, "events", CategoryListing)

	if _, err := store.Get(ctx, "events"); err != nil {
		t.Errorf("expired entry was removed from the durable tier: %v", err)
	}
}

// A fresh durable entry is promoted into the memory tier on read.
func TestManager_Get_PromotesDurableHit(t *testing.T) {
	clock := newFakeClock()
	manager, store := setupManager(t, clock)
	ctx := context.Background()

	// Populate the durable tier directly, as a previous session would have.
	entry := &Entry{
		Payload:  map[string]any{"v": float64(42)},
		Category: CategoryListing,
		StoredAt: clock.Now(),
	}
	if err := store.Set(ctx, "events", entry); err != nil {
		t.Fatalf("durable Set failed: %v", err)
	}

	got, err := manager.Get(ctx, "events", CategoryListing)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Payload["v"] != float64(42) {
		t.Errorf("payload mismatch: %v", got.Payload)
	}

	if _, err := manager.memory.Get(ctx, "events"); err != nil {
		t.Errorf("durable hit was not promoted to memory: %v", err)
	}
}

// A key stored under one category is not served under another.
func TestManager_Get_CategoryMismatch(t *testing.T) {
	clock := newFakeClock()
	manager, _ := setupManager(t, clock)
	ctx := context.Background()

	if err := manager.Set(ctx, "k", CategoryListing, map[string]any{}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, err := manager.Get(ctx, "k", CategoryStaticReference); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for category mismatch, got %v", err)
	}
}

func TestManager_GetOrFetch_FreshHitSkipsFetch(t *testing.T) {
	clock := newFakeClock()
	manager, _ := setupManager(t, clock)
	ctx := context.Background()

	if err := manager.Set(ctx, "k", CategoryListing, map[string]any{"v": float64(1)}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	calls := 0
	result, err := manager.GetOrFetch(ctx, "k", CategoryListing, func(context.Context) (map[string]any, error) {
		calls++
		return nil, fmt.Errorf("should not be called")
	})
	if err != nil {
		t.Fatalf("GetOrFetch failed: %v", err)
	}
	if calls != 0 {
		t.Errorf("fetch called %d times on fresh hit, want 0", calls)
	}
	if result.Stale {
		t.Error("fresh hit flagged stale")
	}
}

func TestManager_GetOrFetch_MissFetchesAndStores(t *testing.T) {
	clock := newFakeClock()
	manager, store := setupManager(t, clock)
	ctx := context.Background()

	payload := map[string]any{"success": true, "total": float64(3)}
	result, err := manager.GetOrFetch(ctx, "k", CategoryListing, func(context.Context) (map[string]any, error) {
		return payload, nil
	})
	if err != nil {
		t.Fatalf("GetOrFetch failed: %v", err)
	}
	if result.Stale {
		t.Error("freshly fetched result flagged stale")
	}
	if result.Payload["total"] != float64(3) {
		t.Errorf("payload mismatch: %v", result.Payload)
	}

	// Both tiers were populated.
	if _, err := manager.memory.Get(ctx, "k"); err != nil {
		t.Errorf("memory tier not populated: %v", err)
	}
	if _, err := store.Get(ctx, "k"); err != nil {
		t.Errorf("durable tier not populated: %v", err)
	}
}

// Fallback law: when the origin fails, the expired durable entry is served,
// flagged stale.
func TestManager_GetOrFetch_StaleFallback(t *testing.T) {
	clock := newFakeClock()
	manager, _ := setupManager(t, clock)
	ctx := context.Background()

	payloadA := map[string]any{"events": []any{}, "marker": "payload_A"}
	if err := manager.Set(ctx, "events", CategoryListing, payloadA); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	clock.Advance(time.Hour) // well past the listing TTL

	result, err := manager.GetOrFetch(ctx, "events", CategoryListing, func(context.Context) (map[string]any, error) {
		return nil, fmt.Errorf("origin unreachable")
	})
	if err != nil {
		t.Fatalf("GetOrFetch should have fallen back, got error: %v", err)
	}
	if !result.Stale {
		t.Error("fallback result not flagged stale")
	}
	if result.Payload["marker"] != "payload_A" {
		t.Errorf("fallback served wrong payload: %v", result.Payload)
	}
}

// With no durable entry to fall back to, the origin error propagates.
func TestManager_GetOrFetch_NoFallbackPropagates(t *testing.T) {
	clock := newFakeClock()
	manager, _ := setupManager(t, clock)
	ctx := context.Background()

	originErr := fmt.Errorf("origin unreachable")
	_, err := manager.GetOrFetch(ctx, "absent", CategoryListing, func(context.Context) (map[string]any, error) {
		return nil, originErr
	})
	if !errors.Is(err, originErr) {
		t.Errorf("expected origin error to propagate, got %v", err)
	}
}

func TestManager_Clear_SingleKey(t *testing.T) {
	clock := newFakeClock()
	manager, store := setupManager(t, clock)
	ctx := context.Background()

	if err := manager.Set(ctx, "a", CategoryListing, map[string]any{}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := manager.Set(ctx, "b", CategoryListing, map[string]any{}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := manager.Clear(ctx, "a"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if _, err := manager.Get(ctx, "a", CategoryListing); !errors.Is(err, ErrNotFound) {
		t.Errorf("cleared key still readable: %v", err)
	}
	if _, err := store.Get(ctx, "b"); err != nil {
		t.Errorf("unrelated key was cleared: %v", err)
	}
}

func TestManager_Clear_All(t *testing.T) {
	clock := newFakeClock()
	manager, store := setupManager(t, clock)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if err := manager.Set(ctx, key, CategoryListing, map[string]any{}); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := manager.Clear(ctx, ""); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	stats, _ := store.Stats(ctx)
	if stats.Entries != 0 {
		t.Errorf("durable tier not emptied: %+v", stats)
	}
	if _, err := manager.Get(ctx, "a", CategoryListing); !errors.Is(err, ErrNotFound) {
		t.Errorf("memory tier not emptied: %v", err)
	}
}

// Idempotence: clearing the same key twice is a no-op the second time.
func TestManager_Clear_Idempotent(t *testing.T) {
	clock := newFakeClock()
	manager, _ := setupManager(t, clock)
	ctx := context.Background()

	if err := manager.Set(ctx, "k", CategoryListing, map[string]any{}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := manager.Clear(ctx, "k"); err != nil {
		t.Fatalf("first Clear failed: %v", err)
	}
	if err := manager.Clear(ctx, "k"); err != nil {
		t.Errorf("second Clear should be a no-op, got %v", err)
	}
}

// Durable-tier failure isolation: with the durable store broken, Set and Get
// still work against the memory tier for the life of the process.
func TestManager_DurableFailureIsolation(t *testing.T) {
	clock := newFakeClock()
	manager, err := NewManager(Config{
		Durable: brokenStore{},
		Logger:  zerolog.Nop(),
		Clock:   clock.Now,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	ctx := context.Background()

	if err := manager.Set(ctx, "k", CategoryListing, map[string]any{"v": float64(1)}); err != nil {
		t.Fatalf("Set should succeed despite broken durable tier: %v", err)
	}

	entry, err := manager.Get(ctx, "k", CategoryListing)
	if err != nil {
		t.Fatalf("Get should succeed from memory tier: %v", err)
	}
	if entry.Payload["v"] != float64(1) {
		t.Errorf("payload mismatch: %v", entry.Payload)
	}

	// Stats degrade to memory-only rather than failing.
	stats := manager.Stats(ctx)
	if stats.Memory.Entries != 1 {
		t.Errorf("memory stats = %+v, want 1 entry", stats.Memory)
	}
}

func TestManager_Stats(t *testing.T) {
	clock := newFakeClock()
	manager, _ := setupManager(t, clock)
	ctx := context.Background()

	for _, key := range []string{"a", "b"} {
		if err := manager.Set(ctx, key, CategoryListing, map[string]any{"k": key}); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	stats := manager.Stats(ctx)
	if stats.Memory.Entries != 2 {
		t.Errorf("memory entries = %d, want 2", stats.Memory.Entries)
	}
	if stats.Durable.Entries != 2 {
		t.Errorf("durable entries = %d, want 2", stats.Durable.Entries)
	}
	if stats.Durable.SizeBytes <= 0 {
		t.Errorf("durable size = %d, want > 0", stats.Durable.SizeBytes)
	}
}
