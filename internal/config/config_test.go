package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"TMDB_API_KEY", "CATALOG_PAGE_TTL", "CATALOG_GENRES_TTL", "LIMITER_RPS", "HTTP_PORT", "DECK_SWEEP_INTERVAL"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, "", cfg.Catalog.APIKey)
	assert.Equal(t, time.Hour, cfg.Catalog.PageTTL)
	assert.Equal(t, 24*time.Hour, cfg.Catalog.GenresTTL)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, float64(10), cfg.Limiter.RPS)
	assert.Equal(t, 10*time.Minute, cfg.Deck.SweepInterval)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "key")
	t.Setenv("CATALOG_PAGE_TTL", "5m")
	t.Setenv("LIMITER_BURST", "3")
	t.Setenv("AUTH_REDIRECT_URL", "https://mingle.example")
	t.Setenv("DECK_SWEEP_INTERVAL", "30s")

	cfg := FromEnv()

	assert.Equal(t, "key", cfg.Catalog.APIKey)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.PageTTL)
	assert.Equal(t, 3, cfg.Limiter.Burst)
	assert.Equal(t, "https://mingle.example", cfg.Auth.RedirectURL)
	assert.Equal(t, 30*time.Second, cfg.Deck.SweepInterval)
}

func TestFromEnvMalformedDuration(t *testing.T) {
	t.Setenv("CATALOG_GENRES_TTL", "tomorrow")

	cfg := FromEnv()

	assert.Equal(t, 24*time.Hour, cfg.Catalog.GenresTTL)
}
