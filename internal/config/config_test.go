package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("NEARBY_DEFAULT_LIMIT", "")
	t.Setenv("NEARBY_MAX_LIMIT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Nearby.DefaultLimit)
	assert.Equal(t, 50, cfg.Nearby.MaxLimit)
	assert.Equal(t, uint(7), cfg.Nearby.FeedCellPrecision)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CATALOG_REFRESH_INTERVAL", "30s")
	t.Setenv("CATALOG_REQUIRE_WARM_START", "true")
	t.Setenv("NEARBY_DEFAULT_LIMIT", "5")
	t.Setenv("DATABASE_URL", "postgres://localhost/pourrice")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Catalog.RefreshInterval)
	assert.True(t, cfg.Catalog.RequireWarmStart)
	assert.Equal(t, 5, cfg.Nearby.DefaultLimit)
	assert.True(t, cfg.AnalyticsEnabled())
	assert.True(t, cfg.IsProduction())
}

func TestLoadRejectsDefaultAboveMax(t *testing.T) {
	t.Setenv("NEARBY_DEFAULT_LIMIT", "80")
	t.Setenv("NEARBY_MAX_LIMIT", "50")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("GEMINI_TIMEOUT", "soon")
	t.Setenv("NEARBY_DEFAULT_LIMIT", "")
	t.Setenv("NEARBY_MAX_LIMIT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 60*time.Second, cfg.Assistant.Timeout)
}

func TestLoadRejectsNonPositiveRefreshInterval(t *testing.T) {
	for _, v := range []string{"0s", "-1m"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("NEARBY_DEFAULT_LIMIT", "")
			t.Setenv("NEARBY_MAX_LIMIT", "")
			t.Setenv("CATALOG_REFRESH_INTERVAL", v)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "CATALOG_REFRESH_INTERVAL")
		})
	}
}

func TestLoadLogLevel(t *testing.T) {
	t.Setenv("NEARBY_DEFAULT_LIMIT", "")
	t.Setenv("NEARBY_MAX_LIMIT", "")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Monitoring.LogLevel)
}
