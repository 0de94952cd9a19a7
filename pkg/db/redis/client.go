// Package redis предоставляет подключение к Redis с проверкой соединения.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"socialclient/pkg/logger"
)

// Константы для логирования.
const (
	LogConnected         = "connected to redis"
	ErrorFailedToConnect = "failed to connect to redis"
)

// Connect создает клиент Redis и проверяет соединение командой PING.
// При неудаче клиент закрывается.
func Connect(ctx context.Context, cfg *Config) (*redis.Client, error) {
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Address(),
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        poolSize,
		MinIdleConns:    cfg.MinIdleConns,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})

	pingTimeout := cfg.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = DefaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", ErrorFailedToConnect, err)
	}

	logger.Log(ctx).Debug(ctx, LogConnected, zap.String("address", cfg.Address()), zap.Int("db", cfg.DB))
	return rdb, nil
}
