package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://dummyjson.com", cfg.Upstream.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, SearchBackendMemory, cfg.Search.Backend)
	assert.Equal(t, 15*time.Minute, cfg.Search.IndexInterval)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("UPSTREAM_BASE_URL", "http://localhost:4010")
	t.Setenv("SEARCH_BACKEND", "redisearch")
	t.Setenv("SEARCH_INDEX_INTERVAL", "1m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://localhost:4010", cfg.Upstream.BaseURL)
	assert.Equal(t, SearchBackendRediSearch, cfg.Search.Backend)
	assert.Equal(t, time.Minute, cfg.Search.IndexInterval)
}

func TestLoadRejectsUnknownSearchBackend(t *testing.T) {
	t.Setenv("SEARCH_BACKEND", "elastic")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	t.Setenv("SEARCH_INDEX_INTERVAL", "soon")

	_, err := Load()
	assert.Error(t, err)
}
