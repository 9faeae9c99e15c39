package config

import (
	"os"
	"testing"
	"time"

	"github.com/georgemunganga/novashop/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/novashop?sslmode=disable")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("SESSION_TTL", "2h")

	cfg, _, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, core.Production, cfg.Environment())
	assert.Equal(t, "redis://cache:6379/1", cfg.Redis.URL)
	assert.Equal(t, 3, cfg.Redis.ReadTimeout)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "sandbox", cfg.PaymentProvider)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.Equal(t, 30*time.Minute, cfg.ShopSessionIdleTimeout)
	assert.Equal(t, 10000, cfg.ShopMaxSessions)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("JWT_SECRET")

	_, _, err := Load()
	assert.Error(t, err)
}
