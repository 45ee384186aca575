// Package events composes the API client and cache manager into the
// caller-facing data service used by the dashboard and proxy.
package events

import (
	"context"
	"fmt"
	"net/url"

	"github.com/LucyDev256/milano-events-client/pkg/cache"
	"github.com/LucyDev256/milano-events-client/pkg/client"
	"github.com/rs/zerolog"
)

// Service provides cached access to the events API. Every read goes through
// the cache manager, so callers always learn whether a payload is fresh or a
// stale fallback.
type Service struct {
	client *client.Client
	cache  *cache.Manager
	logger zerolog.Logger
}

// NewService creates an events service.
func NewService(apiClient *client.Client, cacheManager *cache.Manager, logger zerolog.Logger) (*Service, error) {
	if apiClient == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if cacheManager == nil {
		return nil, fmt.Errorf("cache manager is required")
	}
	return &Service{
		client: apiClient,
		cache:  cacheManager,
		logger: logger,
	}, nil
}

// cached runs the standard get-or-fetch cycle for one endpoint.
func (s *Service) cached(ctx context.Context, endpoint string, params url.Values, category cache.Category, fetch func(ctx context.Context) (*client.Response, error)) (*cache.Result, error) {
	key := cache.Key{Endpoint: endpoint, Params: params}.String()

	return s.cache.GetOrFetch(ctx, key, category, func(ctx context.Context) (map[string]any, error) {
		resp, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return resp.Raw, nil
	})
}

// Events returns Olympic events matching the filter (listing TTL).
func (s *Service) Events(ctx context.Context, filter client.EventFilter) (*cache.Result, error) {
	params := filter.Values()
	return s.cached(ctx, "/events", params, cache.CategoryListing,
		func(ctx context.Context) (*client.Response, error) {
			return s.client.Events(ctx, filter)
		})
}

// TodayEvents returns today's events (today-snapshot TTL).
func (s *Service) TodayEvents(ctx context.Context) (*cache.Result, error) {
	return s.cached(ctx, "/events/today", nil, cache.CategoryTodaySnapshot,
		func(ctx context.Context) (*client.Response, error) {
			return s.client.TodayEvents(ctx)
		})
}

// Search runs a full-text event search (listing TTL).
func (s *Service) Search(ctx context.Context, query string) (*cache.Result, error) {
	params := url.Values{}
	params.Set("q", query)
	return s.cached(ctx, "/search", params, cache.CategoryListing,
		func(ctx context.Context) (*client.Response, error) {
			return s.client.Search(ctx, query)
		})
}

// Sports returns the sports list (static-reference TTL).
func (s *Service) Sports(ctx context.Context) (*cache.Result, error) {
	return s.cached(ctx, "/sports", nil, cache.CategoryStaticReference,
		func(ctx context.Context) (*client.Response, error) {
			return s.client.Sports(ctx)
		})
}

// SportEvents returns events for one sport (listing TTL).
func (s *Service) SportEvents(ctx context.Context, sportCode string, limit int) (*cache.Result, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}
	return s.cached(ctx, fmt.Sprintf("/sports/%s/events", sportCode), params, cache.CategoryListing,
		func(ctx context.Context) (*client.Response, error) {
			return s.client.SportEvents(ctx, sportCode, limit)
		})
}

// Countries returns the country list (static-reference TTL).
func (s *Service) Countries(ctx context.Context) (*cache.Result, error) {
	return s.cached(ctx, "/countries", nil, cache.CategoryStaticReference,
		func(ctx context.Context) (*client.Response, error) {
			return s.client.Countries(ctx)
		})
}

// CountryEvents returns events for one country (listing TTL).
func (s *Service) CountryEvents(ctx context.Context, countryCode, sportCode string) (*cache.Result, error) {
	params := url.Values{}
	if sportCode != "" {
		params.Set("sport_code", sportCode)
	}
	return s.cached(ctx, fmt.Sprintf("/countries/%s/events", countryCode), params, cache.CategoryListing,
		func(ctx context.Context) (*client.Response, error) {
			return s.client.CountryEvents(ctx, countryCode, sportCode)
		})
}

// ClearCache clears one cache entry, or everything when key is empty.
func (s *Service) ClearCache(ctx context.Context, key string) error {
	return s.cache.Clear(ctx, key)
}

// CacheStats returns cache introspection data.
func (s *Service) CacheStats(ctx context.Context) cache.ManagerStats {
	return s.cache.Stats(ctx)
}
