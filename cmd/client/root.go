package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"socialclient/internal/client/bootstrap"
	"socialclient/internal/client/config"
	"socialclient/pkg/logger"
)

// Константы для сообщений об ошибках.
const (
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrBootstrap            = "failed to initialize client"
	ErrCloseClient          = "failed to close client"
)

type cli struct {
	envFile string
}

func newRootCommand() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "socialclient",
		Short:         "Command line client for the social network GraphQL API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	envFile := os.Getenv(config.EnvFileVariable)
	if envFile == "" {
		envFile = config.DefaultEnvFile
	}
	root.PersistentFlags().StringVar(&c.envFile, "env-file", envFile, "path to the .env file with CLIENT_* settings")

	root.AddCommand(
		c.loginCommand(),
		c.registerCommand(),
		c.logoutCommand(),
		c.whoamiCommand(),
		c.feedCommand(),
		c.postCommand(),
		c.likeCommand(),
		c.chatCommand(),
		c.sendCommand(),
		c.profileCommand(),
		c.friendsCommand(),
		c.trendingCommand(),
		c.serveCommand(),
	)

	return root
}

// withClient загружает конфигурацию, собирает клиент и закрывает его после run.
func (c *cli) withClient(cmd *cobra.Command, run func(ctx context.Context, client *bootstrap.Client) error) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx, c.envFile)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrLoadConfig, err)
	}

	finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrInitLoggerWithConfig, err)
	}
	logger.SetGlobalLogger(finalLogger)

	client, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrBootstrap, err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Log(ctx).Warn(ctx, ErrCloseClient, zap.Error(err))
		}
	}()

	return run(ctx, client)
}
