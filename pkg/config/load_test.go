package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialclient/pkg/config"
)

type sample struct {
	Name    string        `env:"SAMPLE_NAME" env-default:"default-name"`
	Timeout time.Duration `env:"SAMPLE_TIMEOUT" env-default:"3s"`
	Port    int           `env:"SAMPLE_PORT" env-required:"true"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults and environment", func(t *testing.T) {
		t.Setenv("SAMPLE_PORT", "8080")

		cfg, err := config.Load[sample](context.Background(), "test", "")
		require.NoError(t, err)
		assert.Equal(t, "default-name", cfg.Name)
		assert.Equal(t, 3*time.Second, cfg.Timeout)
		assert.Equal(t, 8080, cfg.Port)
	})

	t.Run("missing env file is ignored", func(t *testing.T) {
		t.Setenv("SAMPLE_PORT", "9090")

		cfg, err := config.Load[sample](context.Background(), "test", filepath.Join(t.TempDir(), "absent.env"))
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Port)
	})

	t.Run("env file values", func(t *testing.T) {
		t.Setenv("SAMPLE_PORT", "1")
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("SAMPLE_NAME=from-file\n"), 0o600))
		t.Cleanup(func() { _ = os.Unsetenv("SAMPLE_NAME") })

		cfg, err := config.Load[sample](context.Background(), "test", path)
		require.NoError(t, err)
		assert.Equal(t, "from-file", cfg.Name)
	})

	t.Run("required value missing", func(t *testing.T) {
		require.NoError(t, os.Unsetenv("SAMPLE_PORT"))

		cfg, err := config.Load[sample](context.Background(), "test", "")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "failed to load configuration")
	})
}
