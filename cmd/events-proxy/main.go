// Command events-proxy serves the Milano-Cortina events API through the
// two-tier cache, exposing cache introspection and Prometheus metrics.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/LucyDev256/milano-events-client/pkg/cache"
	"github.com/LucyDev256/milano-events-client/pkg/client"
	"github.com/LucyDev256/milano-events-client/pkg/config"
	"github.com/LucyDev256/milano-events-client/pkg/events"
	"github.com/LucyDev256/milano-events-client/pkg/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup(logging.DefaultConfig())
		logger := logging.NewLogger("events-proxy")
		logger.Fatal().Err(err).Msg("Configuration error")
	}

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
	})
	logger := logging.NewLogger("events-proxy")

	durable, err := buildDurableStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open durable cache store")
	}

	cacheManager, err := cache.NewManager(cache.Config{
		Policy:  cfg.CachePolicy(),
		Durable: durable,
		Logger:  logging.NewLogger("cache-manager"),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create cache manager")
	}
	defer cacheManager.Close()

	apiClient, err := client.New(client.Config{
		BaseURL: cfg.APIBaseURL,
		APIKey:  cfg.APIKey,
		APIHost: cfg.APIHost,
		Timeout: cfg.RequestTimeout,
		Retry: client.RetryConfig{
			MaxAttempts:       cfg.MaxAttempts,
			InitialBackoff:    cfg.InitialBackoff,
			BackoffMultiplier: 2.0,
		},
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create API client")
	}

	service, err := events.NewService(apiClient, cacheManager, logging.NewLogger("events-service"))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create events service")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", healthHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/cache/stats", cacheStatsHandler(service))
	mux.HandleFunc("/cache", cacheClearHandler(service, logger))
	registerAPIRoutes(mux, service)

	addr := ":" + cfg.ServerPort
	logger.Info().
		Str("addr", addr).
		Str("cache_backend", cfg.CacheBackend).
		Msg("Starting events proxy")

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

func buildDurableStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.CacheBackend {
	case config.BackendRedis:
		return cache.NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}))
	case config.BackendLevelDB:
		return cache.NewLevelDBStore(cfg.LevelDBPath)
	default:
		return cache.NewFileStore(cfg.CacheDir)
	}
}

func registerAPIRoutes(mux *http.ServeMux, service *events.Service) {
	mux.HandleFunc("/v1/events", func(w http.ResponseWriter, r *http.Request) {
		result, err := service.Events(r.Context(), eventFilterFromQuery(r))
		writeResult(w, result, err)
	})
	mux.HandleFunc("/v1/events/today", func(w http.ResponseWriter, r *http.Request) {
		result, err := service.TodayEvents(r.Context())
		writeResult(w, result, err)
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			http.Error(w, "query parameter q is required", http.StatusBadRequest)
			return
		}
		result, err := service.Search(r.Context(), query)
		writeResult(w, result, err)
	})
	mux.HandleFunc("/v1/sports", func(w http.ResponseWriter, r *http.Request) {
		result, err := service.Sports(r.Context())
		writeResult(w, result, err)
	})
	mux.HandleFunc("/v1/sports/", func(w http.ResponseWriter, r *http.Request) {
		code, ok := pathSegment(r.URL.Path, "/v1/sports/", "events")
		if !ok {
			http.NotFound(w, r)
			return
		}
		result, err := service.SportEvents(r.Context(), code, atoiOrZero(r.URL.Query().Get("limit")))
		writeResult(w, result, err)
	})
	mux.HandleFunc("/v1/countries", func(w http.ResponseWriter, r *http.Request) {
		result, err := service.Countries(r.Context())
		writeResult(w, result, err)
	})
	mux.HandleFunc("/v1/countries/", func(w http.ResponseWriter, r *http.Request) {
		code, ok := pathSegment(r.URL.Path, "/v1/countries/", "events")
		if !ok {
			http.NotFound(w, r)
			return
		}
		result, err := service.CountryEvents(r.Context(), code, r.URL.Query().Get("sport_code"))
		writeResult(w, result, err)
	})
}

func eventFilterFromQuery(r *http.Request) client.EventFilter {
	q := r.URL.Query()
	return client.EventFilter{
		Date:      q.Get("date"),
		DateFrom:  q.Get("date_from"),
		DateTo:    q.Get("date_to"),
		SportCode: q.Get("sport_code"),
		Country:   q.Get("country"),
		Venue:     q.Get("venue"),
		City:      q.Get("city"),
		Limit:     atoiOrZero(q.Get("limit")),
	}
}

// pathSegment extracts {code} from prefix + "{code}/" + suffix paths.
func pathSegment(path, prefix, suffix string) (string, bool) {
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != suffix {
		return "", false
	}
	return parts[0], true
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// writeResult renders a cache result as JSON. The X-Cache-Status header
// distinguishes fresh from stale so stale data is never silently presented
// as fresh.
func writeResult(w http.ResponseWriter, result *cache.Result, err error) {
	if err != nil {
		status := http.StatusBadGateway
		if client.IsAuthError(err) {
			status = http.StatusUnauthorized
		} else if client.IsRateLimited(err) {
			status = http.StatusTooManyRequests
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if result.Stale {
		w.Header().Set("X-Cache-Status", "stale")
	} else {
		w.Header().Set("X-Cache-Status", "fresh")
	}
	if err := json.NewEncoder(w).Encode(result.Payload); err != nil {
		logger := logging.NewLogger("events-proxy")
		logger.Error().Err(err).Msg("Failed to write response")
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func cacheStatsHandler(service *events.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(service.CacheStats(r.Context()))
	}
}

func cacheClearHandler(service *events.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		key := r.URL.Query().Get("key")
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		if err := service.ClearCache(ctx, key); err != nil {
			logger.Error().Err(err).Str("key", key).Msg("Cache clear failed")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
