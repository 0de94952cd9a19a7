// Package config предоставляет загрузку конфигурации из .env файла и переменных окружения.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"socialclient/pkg/logger"
)

const (
	msgLoadingConfiguration = "loading configuration"
	msgConfigurationLoaded  = "configuration loaded successfully"
	msgEnvFileSkipped       = "env file not found, using process environment"

	errFailedLoadEnvFile       = "failed to load env file"
	errFailedLoadConfiguration = "failed to load configuration"

	attrService = "service"
	attrPath    = "path"
)

// Load читает необязательный envFile (godotenv не перезаписывает уже заданные переменные),
// затем заполняет T по тегам env/env-default.
func Load[T any](ctx context.Context, serviceName, envFile string) (*T, error) {
	log := logger.Log(ctx).With(zap.String(attrService, serviceName))

	log.Debug(ctx, msgLoadingConfiguration, zap.String(attrPath, envFile))

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Error(ctx, errFailedLoadEnvFile, zap.Error(err))
				return nil, fmt.Errorf("%s: %w", errFailedLoadEnvFile, err)
			}
			log.Debug(ctx, msgEnvFileSkipped, zap.String(attrPath, envFile))
		}
	}

	var cfg T
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Error(ctx, errFailedLoadConfiguration, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errFailedLoadConfiguration, err)
	}

	log.Debug(ctx, msgConfigurationLoaded)

	return &cfg, nil
}
