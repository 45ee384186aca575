// Package cache provides two-tier read-through caching for Olympics API
// responses.
//
// The manager keeps a fast in-process tier in front of a durable tier and
// applies a per-category freshness window at read time:
//
//   - static-reference (24h): sports list, country list
//   - listing (10m): event listings, search results
//   - today-snapshot (5m): today's events
//
// Expiry is lazy. An expired entry is reported as a miss but is never deleted
// by a read; it stays in the durable tier so GetOrFetch can serve it, flagged
// stale, when the origin is unreachable. Eviction happens only through Clear.
//
// # Basic Usage
//
//	store, err := cache.NewFileStore(".cache")
//	if err != nil {
//		return err
//	}
//
//	manager, err := cache.NewManager(cache.Config{Durable: store})
//	if err != nil {
//		return err
//	}
//	defer manager.Close()
//
//	key := cache.Key{Endpoint: "/sports"}.String()
//	result, err := manager.GetOrFetch(ctx, key, cache.CategoryStaticReference,
//		func(ctx context.Context) (map[string]any, error) {
//			resp, err := apiClient.Sports(ctx)
//			if err != nil {
//				return nil, err
//			}
//			return resp.Raw, nil
//		})
//	if err != nil {
//		// Origin failed and no cached copy exists.
//		return err
//	}
//	if result.Stale {
//		// Origin failed; this payload is past its TTL.
//	}
//
// # Durable Backends
//
// Three durable backends implement the Store interface:
//
//   - FileStore: one JSON document per key, human-inspectable (default)
//   - RedisStore: shared Redis instance
//   - LevelDBStore: embedded LevelDB database
//
// Backends store entries without a server-side expiry. Freshness is decided
// by the manager, never the store.
//
// # Failure Semantics
//
// Durable tier I/O errors are logged and treated as a tier-local miss. A
// read-only cache directory degrades the manager to memory-only caching for
// the life of the process; it never turns a successful fetch into an error.
//
// # Metrics
//
//   - events_cache_hits_total{tier} - hits by tier (memory, durable)
//   - events_cache_misses_total - misses
//   - events_cache_stale_fallbacks_total - stale entries served on origin failure
//   - events_cache_errors_total{operation} - store operation errors
package cache
