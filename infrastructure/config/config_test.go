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

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "http://backend-service:5000", cfg.CardServiceURL)
	assert.Equal(t, StateBackendRedis, cfg.StateBackend)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 24*time.Hour, cfg.HistoryTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9999")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("STATE_BACKEND", "memory")
	t.Setenv("SESSION_TTL_SECONDS", "120")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ServerAddress)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, StateBackendMemory, cfg.StateBackend)
	assert.Equal(t, 2*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoadRejectsBadBackend(t *testing.T) {
	t.Setenv("STATE_BACKEND", "etcd")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STATE_BACKEND")
}

func TestLoadRequiresDynamoTable(t *testing.T) {
	t.Setenv("STATE_BACKEND", "dynamo")
	t.Setenv("DYNAMO_STATE_TABLE", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DYNAMO_STATE_TABLE")
}
