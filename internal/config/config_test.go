package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, uint32(64*1024), cfg.Argon2.MemoryKiB)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.True(t, cfg.InsecureSecret)
	assert.Equal(t, "supervision.notifications", cfg.Events.Queue)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestFromViper_Env(t *testing.T) {
	t.Setenv("APP_ENV", "PROD")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/x.db")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("EVENTS_ENABLED", "true")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("RATE_LIMIT_CAPACITY", "0")

	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "/tmp/x.db", cfg.DB.Path)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.False(t, cfg.InsecureSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.Events.Enabled)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 1, cfg.RateLimit.Capacity)
}

func TestFromViper_UnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	_, err := FromViper(newViper())
	assert.Error(t, err)
}

func TestRateLimitNormalized(t *testing.T) {
	rl := RateLimitConfig{RefillInterval: 2 * time.Second}.normalized()
	assert.Equal(t, 1, rl.Capacity)
	assert.Equal(t, 1, rl.RefillTokens)
	assert.Equal(t, 10*time.Second, rl.TTL)
}

func TestFromViper_Argon2Bounds(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "zero memory", env: map[string]string{"ARGON2_MEMORY_KIB": "0"}},
		{name: "zero iterations", env: map[string]string{"ARGON2_ITERATIONS": "0"}},
		{name: "too many iterations", env: map[string]string{"ARGON2_ITERATIONS": "65"}},
		{name: "memory over cap", env: map[string]string{"ARGON2_MEMORY_KIB": "2097152"}},
		{name: "memory below 8 per lane", env: map[string]string{"ARGON2_MEMORY_KIB": "16", "ARGON2_PARALLELISM": "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromViper(newViper())
			assert.ErrorContains(t, err, "ARGON2")
		})
	}
}

func TestFromViper_Argon2Custom(t *testing.T) {
	t.Setenv("ARGON2_MEMORY_KIB", "32")
	t.Setenv("ARGON2_ITERATIONS", "1")
	t.Setenv("ARGON2_PARALLELISM", "4")

	cfg, err := FromViper(newViper())
	require.NoError(t, err)
	p := cfg.Argon2.Params()
	assert.Equal(t, uint32(32), p.Memory)
	assert.Equal(t, uint8(4), p.Parallelism)
	assert.Equal(t, uint32(16), p.SaltLength)
	assert.NoError(t, p.Validate())
}
