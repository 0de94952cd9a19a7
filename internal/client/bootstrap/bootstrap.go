// Package bootstrap собирает клиент из конфигурации: хранилище, транспорт,
// сессию, координатор обновления, API и keepalive.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"socialclient/internal/client/adapters/graphql"
	storeadapter "socialclient/internal/client/adapters/store"
	"socialclient/internal/client/app"
	"socialclient/internal/client/config"
	"socialclient/internal/client/domain/apierr"
	"socialclient/internal/client/keepalive"
	"socialclient/internal/client/metrics"
	"socialclient/internal/client/ports/store"
	"socialclient/internal/client/refresh"
	"socialclient/pkg/logger"
)

// Константы для логирования.
const (
	LogInitStore     = "initializing credential store"
	LogInitTransport = "initializing graphql transport"
	LogInitSession   = "initializing session"
	LogSessionState  = "session verified"
	ErrCreateStore   = "failed to create credential store"
	ErrCreateMetrics = "failed to register metrics"
	ErrVerifySession = "failed to verify session"
	ErrCloseStore    = "failed to close credential store"
)

// Client - собранный клиент со всеми зависимостями.
type Client struct {
	Config      *config.Config
	Store       store.Store
	Registry    *prometheus.Registry
	Metrics     *metrics.Collector
	Transport   *graphql.Transport
	Auth        *graphql.AuthClient
	Session     *app.Session
	Coordinator *refresh.Coordinator
	Requester   *app.Requester
	API         *app.API
	Keepalive   *keepalive.Keepalive
}

// New создает клиент. Хранилище закрывается вызовом Close.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	log := logger.Log(ctx)

	registry := prometheus.NewRegistry()
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrCreateMetrics, err)
	}
	collector, err := metrics.NewCollector(registry)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrCreateMetrics, err)
	}

	log.Info(ctx, LogInitStore, zap.String("driver", cfg.Store.Driver))
	st, err := storeadapter.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrCreateStore, err)
	}

	log.Info(ctx, LogInitTransport, zap.String("url", cfg.API.URL))
	transport := graphql.NewTransport(&cfg.API, collector)
	authClient := graphql.NewAuthClient(transport)

	log.Info(ctx, LogInitSession, zap.String("session_id", cfg.Store.SessionID))
	session := app.NewSession(st, authClient, app.SessionOptions{
		Metrics:       collector,
		ProbeAttempts: cfg.Refresh.ProbeAttempts,
	})

	coordinator := refresh.NewCoordinator(cfg.Store.SessionID, st, authClient, refresh.Options{
		Listener:       session,
		Locker:         st,
		Classifier:     apierr.Classifier{LegacyMatching: cfg.Refresh.LegacyMatching},
		Metrics:        collector,
		RefreshTimeout: cfg.Refresh.Timeout,
		LockTTL:        cfg.Refresh.LockTTL,
		LockPoll:       cfg.Refresh.LockPoll,
	})

	requester := app.NewRequester(transport, st, coordinator, collector)
	api := app.NewAPI(requester, cfg.API.TrendingTTL)

	return &Client{
		Config:      cfg,
		Store:       st,
		Registry:    registry,
		Metrics:     collector,
		Transport:   transport,
		Auth:        authClient,
		Session:     session,
		Coordinator: coordinator,
		Requester:   requester,
		API:         api,
		Keepalive:   keepalive.New(st, coordinator, session, api, cfg.Refresh.Ahead),
	}, nil
}

// Verify проверяет сохраненную сессию при запуске.
// Сбой транспорта не сбрасывает сессию и возвращается как ошибка.
func (c *Client) Verify(ctx context.Context) (bool, error) {
	ok, err := c.Session.Verify(ctx, c.API)
	if err != nil {
		logger.Log(ctx).Warn(ctx, ErrVerifySession, zap.Error(err))
		return false, fmt.Errorf("%s: %w", ErrVerifySession, err)
	}

	logger.Log(ctx).Debug(ctx, LogSessionState, zap.Bool("authenticated", ok))
	return ok, nil
}

// Close освобождает хранилище.
func (c *Client) Close() error {
	if err := c.Store.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrCloseStore, err)
	}
	return nil
}
