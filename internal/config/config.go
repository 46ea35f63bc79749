package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// SearchBackend identifies which search backend variant to run.
type SearchBackend string

const (
	SearchBackendMemory     SearchBackend = "memory"
	SearchBackendRediSearch SearchBackend = "redisearch"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port string
	Env  string

	Upstream UpstreamConfig
	Redis    RedisConfig
	Search   SearchConfig
}

// UpstreamConfig contains settings for the upstream catalog API client.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
	MaxRPS  int
}

// RedisConfig contains Redis connection parameters for the RediSearch backend.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// SearchConfig selects the search backend and the index sync cadence.
type SearchConfig struct {
	Backend       SearchBackend
	IndexInterval time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")

	// Upstream catalog API
	upstreamTimeout, err := parseDurationEnv("UPSTREAM_TIMEOUT", "30s")
	if err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT: %w", err)
	}
	cfg.Upstream = UpstreamConfig{
		BaseURL: getEnv("UPSTREAM_BASE_URL", "https://dummyjson.com"),
		Timeout: upstreamTimeout,
		MaxRPS:  getEnvInt("UPSTREAM_MAX_RPS", 10),
	}

	// Redis (only used by the redisearch backend)
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Search backend selection is a process-wide decision made once here.
	backend := SearchBackend(getEnv("SEARCH_BACKEND", string(SearchBackendMemory)))
	if backend != SearchBackendMemory && backend != SearchBackendRediSearch {
		return nil, fmt.Errorf("invalid SEARCH_BACKEND %q: must be %q or %q",
			backend, SearchBackendMemory, SearchBackendRediSearch)
	}
	indexInterval, err := parseDurationEnv("SEARCH_INDEX_INTERVAL", "15m")
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_INDEX_INTERVAL: %w", err)
	}
	cfg.Search = SearchConfig{
		Backend:       backend,
		IndexInterval: indexInterval,
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
