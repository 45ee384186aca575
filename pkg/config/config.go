// Package config loads process-wide configuration from environment
// variables, with optional .env file support. Configuration is read once at
// startup and treated as immutable for the session's lifetime.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/LucyDev256/milano-events-client/pkg/cache"
	"github.com/joho/godotenv"
)

// Supported durable cache backends.
const (
	BackendFile    = "file"
	BackendRedis   = "redis"
	BackendLevelDB = "leveldb"
)

// Config holds all application configuration.
type Config struct {
	// Server
	ServerPort string

	// API client
	APIBaseURL     string
	APIKey         string
	APIHost        string
	RequestTimeout time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration

	// Cache
	CacheBackend string // file, redis, leveldb
	CacheDir     string
	LevelDBPath  string

	// Redis backend
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Per-category TTLs
	TTLStaticReference time.Duration
	TTLListing         time.Duration
	TTLTodaySnapshot   time.Duration

	// Logging
	LogLevel  string
	LogPretty bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present. Returns an error if required values
// are missing or invalid.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		APIBaseURL:     getEnv("OLYMPICS_API_BASE_URL", "https://milano-cortina-2026-olympics-api.p.rapidapi.com"),
		APIKey:         getEnv("OLYMPICS_API_KEY", ""),
		APIHost:        getEnv("OLYMPICS_API_HOST", "milano-cortina-2026-olympics-api.p.rapidapi.com"),
		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT_SECONDS", 10),
		MaxAttempts:    getEnvAsInt("MAX_ATTEMPTS", 3),
		InitialBackoff: getEnvAsDuration("INITIAL_BACKOFF_SECONDS", 1),

		CacheBackend: getEnv("CACHE_BACKEND", BackendFile),
		CacheDir:     getEnv("CACHE_DIR", ".cache"),
		LevelDBPath:  getEnv("LEVELDB_PATH", ".cache.db"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		TTLStaticReference: getEnvAsDuration("TTL_STATIC_REFERENCE_SECONDS", 86400),
		TTLListing:         getEnvAsDuration("TTL_LISTING_SECONDS", 600),
		TTLTodaySnapshot:   getEnvAsDuration("TTL_TODAY_SNAPSHOT_SECONDS", 300),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("LOG_PRETTY", false),
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OLYMPICS_API_KEY is required")
	}

	switch cfg.CacheBackend {
	case BackendFile, BackendRedis, BackendLevelDB:
	default:
		return nil, fmt.Errorf("unknown CACHE_BACKEND %q (want file, redis, or leveldb)", cfg.CacheBackend)
	}

	if err := cfg.CachePolicy().Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// CachePolicy builds the per-category TTL table.
func (c *Config) CachePolicy() cache.Policy {
	return cache.Policy{
		cache.CategoryStaticReference: c.TTLStaticReference,
		cache.CategoryListing:         c.TTLListing,
		cache.CategoryTodaySnapshot:   c.TTLTodaySnapshot,
	}
}

// getEnv reads a string environment variable with a fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an integer environment variable with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvAsBool reads a boolean environment variable with a fallback.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvAsDuration reads a seconds-valued environment variable with a fallback.
func getEnvAsDuration(key string, defaultSeconds int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultSeconds)) * time.Second
}
