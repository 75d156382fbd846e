package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DSN", "LOG_FILE", "LOG_LEVEL", "RATE_LIMIT_MAX", "BODY_LIMIT_BYTES", "SEED_DEMO"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "storefront.db", c.DBDSN)
	assert.Equal(t, "./storefront.log", c.LogFile)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 60, c.RateLimitMax)
	assert.Equal(t, 1<<20, c.BodyLimit)
	assert.True(t, c.SeedDemo)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DSN", ":memory:")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RATE_LIMIT_MAX", "5")
	t.Setenv("SEED_DEMO", "false")
	c := Load()
	assert.Equal(t, "9090", c.Port)
	assert.Equal(t, ":memory:", c.DBDSN)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 5, c.RateLimitMax)
	assert.False(t, c.SeedDemo)
	assert.Len(t, c.Fields(), 7)
}
