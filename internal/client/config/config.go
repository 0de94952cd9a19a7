// Package config содержит конфигурацию клиента социальной сети.
package config

import (
	"context"

	"go.uber.org/zap"

	pkgconfig "socialclient/pkg/config"
	"socialclient/pkg/logger"
)

// Константы сообщений конфигурации.
const (
	ServiceName      = "socialclient"
	DefaultEnvFile   = ".env"
	LogConfigLoaded  = "client configuration loaded"
	EnvFileVariable  = "CLIENT_ENV_FILE"
	ErrFailedLoadCfg = "failed to load client configuration"
)

// Config представляет полную конфигурацию клиента.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Store    StoreConfig    `yaml:"store"`
	Redis    RedisConfig    `yaml:"redis"`
	Refresh  RefreshConfig  `yaml:"refresh"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	Logging  LoggingConfig  `yaml:"logging"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
}

// Load загружает конфигурацию из envFile (если есть) и переменных окружения.
func Load(ctx context.Context, envFile string) (*Config, error) {
	cfg, err := pkgconfig.Load[Config](ctx, ServiceName, envFile)
	if err != nil {
		return nil, err
	}

	logger.Log(ctx).Info(ctx, LogConfigLoaded,
		zap.String("api_url", cfg.API.URL),
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("session_id", cfg.Store.SessionID),
		zap.String("redis_address", cfg.Redis.GetAddress()),
		zap.Duration("refresh_ahead", cfg.Refresh.Ahead),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode))

	return cfg, nil
}
