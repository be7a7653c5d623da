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

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultEnv, cfg.Env)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultExternalAlertsTTL, cfg.ExternalAlertsTTL)
	assert.Equal(t, DefaultAlertPollInterval, cfg.AlertPollInterval)
	assert.Equal(t, DefaultRateLimit, cfg.RateLimitRPM)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("EXTERNAL_ALERTS_TTL", "45s")
	t.Setenv("RATE_LIMIT_RPM", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 45*time.Second, cfg.ExternalAlertsTTL)
	assert.Equal(t, 30, cfg.RateLimitRPM)
}

func TestLoadBadDurationFallsBack(t *testing.T) {
	t.Setenv("EXTERNAL_ALERTS_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultExternalAlertsTTL, cfg.ExternalAlertsTTL)
}

func TestValidateRejectsNonPositive(t *testing.T) {
	cfg := &Config{
		ExternalAlertsTTL: 0,
		AlertPollInterval: time.Second,
		RateLimitRPM:      10,
	}
	assert.Error(t, cfg.Validate())

	cfg.ExternalAlertsTTL = time.Second
	cfg.AlertPollInterval = -time.Second
	assert.Error(t, cfg.Validate())

	cfg.AlertPollInterval = time.Second
	cfg.RateLimitRPM = 0
	assert.Error(t, cfg.Validate())
}
