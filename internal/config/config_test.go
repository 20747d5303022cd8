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

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "http://localhost:8000", cfg.AI.ServiceURL)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.AI.TextModel)
	assert.Equal(t, 60, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "postgres://ai4local@db/ai4local")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("CORS_ORIGINS", "https://app.ai4local.mg")
	t.Setenv("REDIS_URL", "redis://cache:6379/0")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://ai4local@db/ai4local", cfg.Database.DSN)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpiryPeriod)
	assert.Equal(t, []string{"https://app.ai4local.mg"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "redis://cache:6379/0", cfg.Redis.URL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	t.Setenv("AI_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}
