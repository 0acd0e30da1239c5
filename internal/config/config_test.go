package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := Load()

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30, cfg.AccessTTLMin)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.InDelta(t, 0.05, cfg.PaymentFailureRate, 1e-9)
	assert.Equal(t, 10*time.Second, cfg.MaxHold)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 20, cfg.RateLimit.Limit)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PAYMENT_FAILURE_RATE", "0")
	t.Setenv("BOOKING_MAX_HOLD", "250ms")
	t.Setenv("RATELIMIT_ENABLED", "false")

	cfg := Load()

	assert.Equal(t, "prod", cfg.Env)
	assert.Zero(t, cfg.PaymentFailureRate)
	assert.Equal(t, 250*time.Millisecond, cfg.MaxHold)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestParseDurFallback(t *testing.T) {
	assert.Equal(t, time.Second, parseDur("not-a-duration"))
	assert.Equal(t, 3*time.Minute, parseDur("3m"))
}
