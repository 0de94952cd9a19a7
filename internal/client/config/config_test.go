package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialclient/internal/client/config"
	"socialclient/pkg/logger"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:4000/graphql", cfg.API.URL)
	assert.Equal(t, 10*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, config.StoreDriverFile, cfg.Store.Driver)
	assert.Equal(t, "default", cfg.Store.SessionID)
	assert.Equal(t, "localhost:6379", cfg.Redis.GetAddress())
	assert.Equal(t, time.Minute, cfg.Refresh.Ahead)
	assert.False(t, cfg.Refresh.LegacyMatching)
	assert.Equal(t, "127.0.0.1:8787", cfg.Gateway.GetAddress())
	assert.Equal(t, 5*time.Second, cfg.Shutdown.GetTimeout())
	assert.Equal(t, logger.Production, cfg.Logging.GetEnvironment())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CLIENT_API_URL", "https://social.example.com/graphql")
	t.Setenv("CLIENT_STORE_DRIVER", "redis")
	t.Setenv("CLIENT_SESSION_ID", "alice")
	t.Setenv("CLIENT_REDIS_HOST", "cache")
	t.Setenv("CLIENT_REDIS_PORT", "6380")
	t.Setenv("CLIENT_AUTH_LEGACY_MATCHING", "true")
	t.Setenv("CLIENT_REFRESH_AHEAD", "90s")
	t.Setenv("CLIENT_LOGGER_MODE", "development")

	cfg, err := config.Load(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "https://social.example.com/graphql", cfg.API.URL)
	assert.Equal(t, config.StoreDriverRedis, cfg.Store.Driver)
	assert.Equal(t, "alice", cfg.Store.SessionID)
	assert.Equal(t, "cache:6380", cfg.Redis.GetAddress())
	assert.True(t, cfg.Refresh.LegacyMatching)
	assert.Equal(t, 90*time.Second, cfg.Refresh.Ahead)
	assert.Equal(t, logger.Development, cfg.Logging.GetEnvironment())
}

func TestLoadInvalidValue(t *testing.T) {
	t.Setenv("CLIENT_REDIS_PORT", "not-a-number")

	cfg, err := config.Load(context.Background(), "")
	require.Error(t, err)
	assert.Nil(t, cfg)
}
