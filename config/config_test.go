package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig_Defaults(t *testing.T) {
	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.HTTPPort)
	assert.Equal(t, 120*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "gateway", cfg.AI.Provider)
	assert.Equal(t, "google/gemini-2.5-flash", cfg.AI.ChatModel)
	assert.Equal(t, "google/gemini-2.5-flash-image-preview", cfg.AI.ImageModel)
	assert.Equal(t, 90*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 10*time.Minute, cfg.Weather.CacheTTL)
	assert.True(t, cfg.Images.Enabled)
	assert.Equal(t, "authenticated", cfg.JWT.Audience)
}

func TestInitConfig_EnvOverrides(t *testing.T) {
	t.Setenv("AI_APIKEY", "secret-ai-key")
	t.Setenv("AI_PROVIDER", "gemini")
	t.Setenv("WEATHER_APIKEY", "owm")
	t.Setenv("REPOSITORIES_POSTGRES_HOST", "db.internal")
	t.Setenv("SERVER_RATELIMIT", "5")

	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "secret-ai-key", cfg.AI.APIKey)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "owm", cfg.Weather.APIKey)
	assert.Equal(t, "db.internal", cfg.Repositories.Postgres.Host)
	assert.Equal(t, 5, cfg.Server.RateLimit)
}

func TestInitConfig_EmptyPostgresHostDisablesPersistence(t *testing.T) {
	t.Setenv("REPOSITORIES_POSTGRES_HOST", "")

	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Empty(t, cfg.Repositories.Postgres.Host)
	assert.Equal(t, "8000", cfg.Server.HTTPPort, "unset keys keep their defaults")
}
