// Package refresh объединяет конкурентные обновления токенов одной сессии.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"socialclient/internal/client/domain/apierr"
	"socialclient/internal/client/metrics"
	"socialclient/internal/client/ports/services"
	"socialclient/internal/client/ports/store"
	"socialclient/pkg/logger"
	"socialclient/pkg/redact"
)

// Константы для логирования.
const (
	LogMethodHandleAuthFailure = "HandleAuthFailure"
	LogMethodRefresh           = "Refresh"
	LogMethodFlight            = "flight"

	LogRefreshStarted     = "refreshing session tokens"
	LogRefreshSucceeded   = "session tokens refreshed"
	LogRefreshSkipped     = "token already rotated, skipping refresh"
	LogRefreshJoined      = "joined in-flight refresh"
	LogLockBusy           = "refresh lock held by another process, waiting for rotation"
	LogLockUnavailable    = "refresh lock unavailable, refreshing without it"
	LogWaiterAbandoned    = "caller stopped waiting for refresh"
	LogUnlockFailed       = "failed to release refresh lock"
	LogNoRefreshToken     = "no refresh token stored, logging out"
	ErrorFailedToLoad     = "failed to load credentials"
	ErrorFailedToRefresh  = "failed to refresh tokens"
	ErrorFailedToSave     = "failed to save refreshed tokens"
	ErrorFailedToClear    = "failed to clear credentials"
	ErrorRefreshLockHeld  = "refresh lock still held after waiting"
	ErrorSessionWasClosed = "session cleared by another process"
)

const (
	defaultRefreshTimeout = 10 * time.Second
	defaultLockTTL        = 15 * time.Second
	defaultLockPoll       = 100 * time.Millisecond
)

// Outcome - результат обработки ошибки аутентификации.
type Outcome struct {
	// Retry - запрос нужно повторить с AccessToken.
	Retry       bool
	AccessToken string
	// Shared - результат получен от обновления, запущенного другим вызывающим.
	Shared bool
}

// Options - необязательные параметры координатора.
type Options struct {
	Listener   services.SessionListener
	Locker     store.RefreshLocker
	Classifier apierr.Classifier
	Metrics    *metrics.Collector

	RefreshTimeout time.Duration
	LockTTL        time.Duration
	LockPoll       time.Duration
}

// Coordinator гарантирует не более одного обращения к refreshToken на сессию одновременно.
// Все ожидающие получают результат до того, как ключ сессии освобождается.
type Coordinator struct {
	sessionID string
	store     store.CredentialStore
	refresher services.Refresher

	listener   services.SessionListener
	locker     store.RefreshLocker
	classifier apierr.Classifier
	metrics    *metrics.Collector

	refreshTimeout time.Duration
	lockTTL        time.Duration
	lockPoll       time.Duration

	group   singleflight.Group
	pending atomic.Int64
}

// NewCoordinator создает координатор обновления для сессии sessionID.
func NewCoordinator(sessionID string, st store.CredentialStore, refresher services.Refresher, opts Options) *Coordinator {
	c := &Coordinator{
		sessionID:      sessionID,
		store:          st,
		refresher:      refresher,
		listener:       opts.Listener,
		locker:         opts.Locker,
		classifier:     opts.Classifier,
		metrics:        opts.Metrics,
		refreshTimeout: opts.RefreshTimeout,
		lockTTL:        opts.LockTTL,
		lockPoll:       opts.LockPoll,
	}
	if c.refreshTimeout <= 0 {
		c.refreshTimeout = defaultRefreshTimeout
	}
	if c.lockTTL <= 0 {
		c.lockTTL = defaultLockTTL
	}
	if c.lockPoll <= 0 {
		c.lockPoll = defaultLockPoll
	}
	return c
}

// SetListener задает получателя уведомлений о сессии.
// Вызывается до начала работы координатора.
func (c *Coordinator) SetListener(listener services.SessionListener) {
	c.listener = listener
}

// Pending возвращает число вызывающих, ожидающих результата обновления.
func (c *Coordinator) Pending() int {
	return int(c.pending.Load())
}

// HandleAuthFailure решает, что делать с ошибкой запроса, выполненного с токеном usedToken.
// Для ошибок не из класса аутентификации возвращает failure без изменений.
func (c *Coordinator) HandleAuthFailure(ctx context.Context, failure error, usedToken string) (Outcome, error) {
	if !c.classifier.IsAuthFailure(failure) {
		return Outcome{}, failure
	}

	log := logger.Log(ctx).With(
		zap.String("method", LogMethodHandleAuthFailure),
		zap.String("session_id", c.sessionID))

	token, shared, err := c.join(ctx, usedToken)
	if shared {
		log.Debug(ctx, LogRefreshJoined)
	}
	switch {
	case errors.Is(err, apierr.ErrNoRefreshToken):
		return Outcome{}, failure
	case err != nil:
		return Outcome{}, err
	}

	return Outcome{Retry: true, AccessToken: token, Shared: shared}, nil
}

// Refresh обновляет токены заранее, не дожидаясь ошибки от API.
// Возвращает apierr.ErrNoRefreshToken, если обновлять нечем.
func (c *Coordinator) Refresh(ctx context.Context) (string, error) {
	creds, err := c.store.Load(ctx)
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToLoad,
			zap.String("method", LogMethodRefresh),
			zap.Error(err))
		return "", fmt.Errorf("%s: %w", ErrorFailedToLoad, err)
	}
	if creds.RefreshToken == "" {
		return "", apierr.ErrNoRefreshToken
	}

	token, _, err := c.join(ctx, creds.AccessToken)
	return token, err
}

// join присоединяет вызывающего к обновлению сессии или запускает его.
// Обновление выполняется в отвязанном от ctx контексте, поэтому отмена ctx
// освобождает только этого вызывающего.
func (c *Coordinator) join(ctx context.Context, usedToken string) (string, bool, error) {
	var leader atomic.Bool
	ch := c.group.DoChan(c.sessionID, func() (any, error) {
		leader.Store(true)
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
		defer cancel()
		return c.flight(flightCtx, usedToken)
	})

	// DoChan регистрирует вызывающего до возврата, поэтому счетчик отражает
	// только тех, кто уже ждет результата.
	c.pending.Add(1)
	defer c.pending.Add(-1)

	select {
	case res := <-ch:
		shared := !leader.Load()
		if shared {
			c.metrics.RefreshWaiter()
		}
		if res.Err != nil {
			return "", shared, res.Err
		}
		return res.Val.(string), shared, nil
	case <-ctx.Done():
		logger.Log(ctx).Warn(ctx, LogWaiterAbandoned,
			zap.String("session_id", c.sessionID),
			zap.Error(ctx.Err()))
		return "", false, ctx.Err()
	}
}

// flight выполняет один цикл обновления.
func (c *Coordinator) flight(ctx context.Context, usedToken string) (string, error) {
	log := logger.Log(ctx).With(
		zap.String("method", LogMethodFlight),
		zap.String("session_id", c.sessionID))

	creds, err := c.store.Load(ctx)
	if err != nil {
		log.Error(ctx, ErrorFailedToLoad, zap.Error(err))
		c.metrics.Refresh(metrics.RefreshFailure)
		return "", fmt.Errorf("%s: %w", ErrorFailedToLoad, err)
	}

	if creds.AccessToken != "" && creds.AccessToken != usedToken {
		log.Debug(ctx, LogRefreshSkipped)
		c.metrics.Refresh(metrics.RefreshSkippedStale)
		return creds.AccessToken, nil
	}

	if creds.RefreshToken == "" {
		log.Info(ctx, LogNoRefreshToken)
		c.forceLogout(ctx, apierr.ErrNoRefreshToken)
		return "", apierr.ErrNoRefreshToken
	}

	if c.locker != nil {
		token, locked, err := c.acquireLock(ctx, creds.AccessToken)
		switch {
		case err != nil:
			return "", err
		case token != "":
			return token, nil
		case locked:
			defer c.unlock(ctx)
		}
	}

	return c.exchange(ctx, creds.RefreshToken)
}

// acquireLock берет межпроцессную блокировку. Непустой token означает, что
// другой процесс уже обновил сессию. locked=false без token и ошибки означает,
// что блокировка недоступна и обновление идет без нее.
func (c *Coordinator) acquireLock(ctx context.Context, seenToken string) (string, bool, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodFlight), zap.String("session_id", c.sessionID))

	for range 2 {
		ok, err := c.locker.TryLock(ctx, c.lockTTL)
		if err != nil {
			log.Warn(ctx, LogLockUnavailable, zap.Error(err))
			return "", false, nil
		}
		if ok {
			return "", true, nil
		}

		log.Info(ctx, LogLockBusy)
		c.metrics.Refresh(metrics.RefreshLockWait)

		token, err := c.waitForRotation(ctx, seenToken)
		if err != nil || token != "" {
			return token, false, err
		}
	}

	c.metrics.Refresh(metrics.RefreshFailure)
	return "", false, fmt.Errorf("%w: %s", apierr.ErrRefreshFailed, ErrorRefreshLockHeld)
}

// waitForRotation ждет, пока другой процесс запишет новый токен.
// Пустой результат без ошибки означает, что за lockTTL токен не сменился.
func (c *Coordinator) waitForRotation(ctx context.Context, seenToken string) (string, error) {
	deadline := time.NewTimer(c.lockTTL)
	defer deadline.Stop()
	ticker := time.NewTicker(c.lockPoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %w", apierr.ErrRefreshFailed, ctx.Err())
		case <-deadline.C:
			return "", nil
		case <-ticker.C:
		}

		creds, err := c.store.Load(ctx)
		if err != nil {
			continue
		}
		if creds.IsZero() {
			c.forceLogout(ctx, errors.New(ErrorSessionWasClosed))
			return "", fmt.Errorf("%w: %s", apierr.ErrRefreshFailed, ErrorSessionWasClosed)
		}
		if creds.AccessToken != "" && creds.AccessToken != seenToken {
			return creds.AccessToken, nil
		}
	}
}

func (c *Coordinator) unlock(ctx context.Context) {
	if err := c.locker.Unlock(ctx); err != nil {
		logger.Log(ctx).Warn(ctx, LogUnlockFailed, zap.String("session_id", c.sessionID), zap.Error(err))
	}
}

// exchange обменивает refresh токен на новую пару и сохраняет ее.
func (c *Coordinator) exchange(ctx context.Context, refreshToken string) (string, error) {
	log := logger.Log(ctx).With(
		zap.String("method", LogMethodFlight),
		zap.String("session_id", c.sessionID))

	log.Info(ctx, LogRefreshStarted, zap.String("refresh_token", redact.Token(refreshToken)))

	fresh, err := c.refresher.Refresh(ctx, refreshToken)
	if err == nil && fresh.AccessToken == "" {
		err = apierr.ErrInvalidResponse
	}
	if err != nil {
		log.Error(ctx, ErrorFailedToRefresh, zap.Error(err))
		c.metrics.Refresh(metrics.RefreshFailure)
		failure := fmt.Errorf("%w: %w", apierr.ErrRefreshFailed, err)
		c.forceLogout(ctx, failure)
		return "", failure
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = refreshToken
	}

	if err := c.store.Save(ctx, fresh); err != nil {
		log.Error(ctx, ErrorFailedToSave, zap.Error(err))
		c.metrics.Refresh(metrics.RefreshFailure)
		failure := fmt.Errorf("%w: %s: %w", apierr.ErrRefreshFailed, ErrorFailedToSave, err)
		c.forceLogout(ctx, failure)
		return "", failure
	}

	log.Info(ctx, LogRefreshSucceeded)
	c.metrics.Refresh(metrics.RefreshSuccess)
	if c.listener != nil {
		c.listener.OnTokensRefreshed(ctx, fresh)
	}

	return fresh.AccessToken, nil
}

func (c *Coordinator) forceLogout(ctx context.Context, reason error) {
	if c.listener != nil {
		c.listener.OnForcedLogout(ctx, reason)
		return
	}
	if err := c.store.Clear(ctx); err != nil {
		logger.Log(ctx).Warn(ctx, ErrorFailedToClear, zap.String("session_id", c.sessionID), zap.Error(err))
	}
}
