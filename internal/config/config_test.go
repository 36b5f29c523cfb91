package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.RunAddr)
	assert.Equal(t, "http://localhost:8080", cfg.ShortURLBase)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "linkboard_session", cfg.SessionCookieName)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Empty(t, cfg.DatabaseDSN)
	assert.Empty(t, cfg.SessionRedisAddr)
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":7000")
	t.Setenv("BASE_URL", "http://envonly.com")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("SESSION_REDIS_ADDR", "localhost:6379")

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.RunAddr)
	assert.Equal(t, "http://envonly.com", cfg.ShortURLBase)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, "localhost:6379", cfg.SessionRedisAddr)
}

func TestInvalidLogLevelRejected(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")

	_, err := New(WithDisableFlagsParsing(true))
	require.Error(t, err)
}

func TestInvalidRunAddrRejected(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", "not-an-address")

	_, err := New(WithDisableFlagsParsing(true))
	require.Error(t, err)
}
