package main

import (
	"context"
	"fmt"
	"net"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpServer "socialclient/internal/client/app/http"
	"socialclient/internal/client/bootstrap"
	"socialclient/pkg/logger"
	"socialclient/pkg/shutdown"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "session gateway started"
	LogServiceShutdownDone = "session gateway shutdown complete"
	LogStoppingHTTP        = "stopping HTTP server"
	LogStoppingKeepalive   = "stopping keepalive"
	LogStartingHTTP        = "starting HTTP server"
	ErrStartHTTPServer     = "failed to start HTTP server"
	ErrStartKeepalive      = "failed to start keepalive"
)

func (c *cli) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the local session gateway with background token keepalive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withClient(cmd, serve)
		},
	}
}

func serve(ctx context.Context, client *bootstrap.Client) error {
	log := logger.Log(ctx)
	cfg := client.Config

	if _, err := client.Verify(ctx); err != nil {
		log.Warn(ctx, bootstrap.ErrVerifySession, zap.Error(err))
	}

	if err := client.Keepalive.Start(ctx, cfg.Refresh.KeepaliveSpec); err != nil {
		return fmt.Errorf("%s: %w", ErrStartKeepalive, err)
	}

	app := httpServer.NewApp(&cfg.Gateway)
	httpServer.SetupRouter(app, client.Session, client.Requester, client.Registry)

	ln, err := net.Listen("tcp", cfg.Gateway.GetAddress())
	if err != nil {
		_ = client.Keepalive.Stop(ctx)
		return fmt.Errorf("%s: %w", ErrStartHTTPServer, err)
	}

	log.Info(ctx, LogStartingHTTP, zap.String("address", ln.Addr().String()))
	go func() {
		if err := app.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
			log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
		}
	}()

	log.Info(ctx, LogServiceStarted, zap.String("api_url", cfg.API.URL))

	shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(),
		// Остановка keepalive.
		func(ctx context.Context) error {
			log.Info(ctx, LogStoppingKeepalive)
			return client.Keepalive.Stop(ctx)
		},
		// Остановка HTTP сервера.
		func(ctx context.Context) error {
			log.Info(ctx, LogStoppingHTTP)
			return app.ShutdownWithContext(ctx)
		},
	)

	log.Info(ctx, LogServiceShutdownDone)
	return nil
}
