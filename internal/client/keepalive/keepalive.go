// Package keepalive периодически поддерживает сессию: обновляет токен до истечения
// срока действия и проверяет сессию, когда обновление не требуется.
package keepalive

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"socialclient/internal/client/domain/apierr"
	"socialclient/internal/client/domain/entities"
	"socialclient/internal/client/ports/services"
	"socialclient/internal/client/ports/store"
	"socialclient/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodTick = "keepalive.tick"

	LogKeepaliveStarted   = "keepalive started"
	LogKeepaliveStopped   = "keepalive stopped"
	LogRefreshAhead       = "access token expires soon, refreshing"
	LogSessionIdle        = "no session, skipping keepalive"
	ErrorFailedToSchedule = "failed to schedule keepalive"
	ErrorTickFailed       = "keepalive tick failed"
)

// Refresher - проактивное обновление токенов.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

// Verifier - проверка сессии запросом к API.
type Verifier interface {
	Verify(ctx context.Context, prober services.Prober) (bool, error)
}

// Keepalive выполняет Tick по расписанию cron.
type Keepalive struct {
	store     store.CredentialStore
	refresher Refresher
	verifier  Verifier
	prober    services.Prober
	ahead     time.Duration
	now       func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

// New создает Keepalive. ahead - за сколько до истечения обновлять токен.
func New(st store.CredentialStore, refresher Refresher, verifier Verifier, prober services.Prober, ahead time.Duration) *Keepalive {
	return &Keepalive{
		store:     st,
		refresher: refresher,
		verifier:  verifier,
		prober:    prober,
		ahead:     ahead,
		now:       time.Now,
	}
}

// Start запускает задачу по расписанию spec (например "@every 30s").
func (k *Keepalive) Start(ctx context.Context, spec string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.cron != nil {
		return nil
	}

	c := cron.New()
	jobCtx := context.WithoutCancel(ctx)
	if _, err := c.AddFunc(spec, func() {
		if err := k.Tick(jobCtx); err != nil {
			logger.Log(jobCtx).Warn(jobCtx, ErrorTickFailed, zap.Error(err))
		}
	}); err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToSchedule, zap.String("spec", spec), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSchedule, err)
	}

	c.Start()
	k.cron = c
	logger.Log(ctx).Info(ctx, LogKeepaliveStarted, zap.String("spec", spec))
	return nil
}

// Stop останавливает расписание и ждет завершения текущего Tick или отмены ctx.
func (k *Keepalive) Stop(ctx context.Context) error {
	k.mu.Lock()
	c := k.cron
	k.cron = nil
	k.mu.Unlock()

	if c == nil {
		return nil
	}

	select {
	case <-c.Stop().Done():
		logger.Log(ctx).Info(ctx, LogKeepaliveStopped)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tick выполняет одну итерацию: обновляет токен, истекающий в пределах ahead,
// иначе проверяет сессию. Без сохраненной сессии ничего не делает.
func (k *Keepalive) Tick(ctx context.Context) error {
	ctx, log := logger.ForRequest(ctx, zap.String("method", LogMethodTick))

	creds, err := k.store.Load(ctx)
	if err != nil {
		return err
	}
	if creds.AccessToken == "" {
		log.Debug(ctx, LogSessionIdle)
		return nil
	}

	if k.expiresSoon(creds.AccessToken) && creds.RefreshToken != "" {
		log.Info(ctx, LogRefreshAhead)
		if _, err := k.refresher.Refresh(ctx); err != nil && !errors.Is(err, apierr.ErrNoRefreshToken) {
			return err
		}
		return nil
	}

	_, err = k.verifier.Verify(ctx, k.prober)
	return err
}

func (k *Keepalive) expiresSoon(accessToken string) bool {
	claims, err := entities.ParseAccessClaims(accessToken)
	if err != nil {
		return false
	}
	return claims.ExpiresWithin(k.ahead, k.now())
}
