package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL())
	assert.Equal(t, "Asia/Jerusalem", cfg.DefaultTimezone)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins())
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.S3Enabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_TTL_HOURS", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL())
}

func TestValidate_ProductionNeedsSecret(t *testing.T) {
	cfg := &Config{Env: "production", DBUrl: "postgres://x", JWTSecret: "changeme"}
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "s3cret"
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 24, cfg.JWTTTLHours)
}
