package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
	"DATABASE_URL", "CACHE_BACKEND", "REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB",
	"FEED_SNAPSHOT_SIZE", "FEED_SNAPSHOT_TTL", "FEED_DEFAULT_LIMIT", "FEED_MAX_LIMIT",
	"DAILY_VOTE_QUOTA", "JWT_SECRET", "LOG_LEVEL", "LOG_FILE",
}

// clearEnv blanks every variable Load reads; blank counts as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("test", []string{})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, CacheRedis, cfg.CacheBackend)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 300, cfg.SnapshotSize)
	assert.Equal(t, 300*time.Second, cfg.SnapshotTTL)
	assert.Equal(t, 10, cfg.FeedDefaultLimit)
	assert.Equal(t, 50, cfg.FeedMaxLimit)
	assert.Equal(t, 100, cfg.DailyVoteQuota)
	assert.Contains(t, cfg.DatabaseURL, "@localhost:5432/")
}

func TestLoad_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_USER", "poll")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "polls")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("FEED_SNAPSHOT_TTL", "60")
	t.Setenv("CACHE_BACKEND", "memory")

	cfg, err := Load("test", []string{})
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres://poll:secret@db:5432/polls?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.Equal(t, time.Minute, cfg.SnapshotTTL)
	assert.Equal(t, CacheMemory, cfg.CacheBackend)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://env")

	cfg, err := Load("test", []string{"-port", "8081", "-db-url", "postgres://flag", "-snapshot-ttl", "2m"})
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "postgres://flag", cfg.DatabaseURL)
	assert.Equal(t, 2*time.Minute, cfg.SnapshotTTL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{name: "bad port env", env: map[string]string{"PORT": "abc"}},
		{name: "unknown backend", args: []string{"-cache", "memcached"}},
		{name: "max below default", args: []string{"-feed-default-limit", "20", "-feed-max-limit", "10"}},
		{name: "zero snapshot", args: []string{"-snapshot-size", "0"}},
		{name: "zero quota", env: map[string]string{"DAILY_VOTE_QUOTA": "0"}},
		{name: "unknown flag", args: []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("test", tt.args)
			assert.Error(t, err)
		})
	}
}
