package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"socialclient/internal/client/domain/apierr"
	"socialclient/internal/client/domain/entities"
	"socialclient/internal/client/metrics"
	"socialclient/internal/client/ports/services"
	"socialclient/internal/client/ports/store"
	"socialclient/internal/client/resilience"
	"socialclient/pkg/logger"
	"socialclient/pkg/redact"
)

// Константы для логирования.
const (
	LogMethodLogin    = "Login"
	LogMethodRegister = "Register"
	LogMethodLogout   = "Logout"
	LogMethodVerify   = "Verify"
	LogMethodUpdate   = "Update"

	LogLoggedIn            = "user logged in"
	LogLoggedOut           = "user logged out"
	LogForcedLogout        = "session terminated"
	LogSessionVerified     = "session verified"
	LogSessionInvalid      = "stored session is not valid"
	ErrorFailedToLogin     = "failed to login"
	ErrorFailedToRegister  = "failed to register"
	ErrorFailedToSave      = "failed to save credentials"
	ErrorFailedToClear     = "failed to clear credentials"
	ErrorFailedToVerify    = "failed to verify session"
	ErrorRemoteLogoutFails = "server-side logout failed, clearing local session anyway"
)

// Причины завершения сессии для метрик.
const (
	LogoutReasonManual         = "manual"
	LogoutReasonNoRefreshToken = "no_refresh_token"
	LogoutReasonRefreshFailed  = "refresh_failed"
)

// ErrEmptyCredentials - попытка сохранить сессию без access токена.
var ErrEmptyCredentials = errors.New("credentials without access token")

// SessionOptions - необязательные параметры сессии.
type SessionOptions struct {
	Metrics *metrics.Collector
	// ProbeAttempts - число попыток проверки сессии при сбоях транспорта.
	ProbeAttempts int
	ProbeBackoff  time.Duration
}

// Session хранит состояние аутентификации: текущего пользователя и флаг входа.
// Реализует services.SessionListener для координатора обновления.
type Session struct {
	store   store.CredentialStore
	auth    services.Authenticator
	probe   *resilience.Retry
	metrics *metrics.Collector

	mu            sync.RWMutex
	user          *entities.User
	claims        *entities.AccessClaims
	authenticated bool
}

var _ services.SessionListener = (*Session)(nil)

// NewSession создает сессию поверх хранилища и клиента авторизации.
func NewSession(st store.CredentialStore, auth services.Authenticator, opts SessionOptions) *Session {
	retryCfg := resilience.DefaultRetryConfig()
	if opts.ProbeAttempts > 0 {
		retryCfg.MaxAttempts = opts.ProbeAttempts
	}
	if opts.ProbeBackoff > 0 {
		retryCfg.InitialBackoff = opts.ProbeBackoff
	}
	retryCfg.ShouldRetry = func(err error) bool {
		return errors.Is(err, apierr.ErrTransport)
	}

	return &Session{
		store:   st,
		auth:    auth,
		probe:   resilience.NewRetry("session-probe", retryCfg),
		metrics: opts.Metrics,
	}
}

// Login выполняет вход и сохраняет оба токена.
func (s *Session) Login(ctx context.Context, email, password string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodLogin), zap.String("email", redact.Email(email)))

	payload, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrorFailedToLogin, err)
	}

	if err := s.establish(ctx, payload); err != nil {
		log.Error(ctx, ErrorFailedToSave, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedToLogin, err)
	}

	log.Info(ctx, LogLoggedIn)
	return payload.User, nil
}

// Register регистрирует пользователя и сразу открывает сессию.
func (s *Session) Register(ctx context.Context, email, username, password string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodRegister), zap.String("email", redact.Email(email)))

	payload, err := s.auth.Register(ctx, email, username, password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrorFailedToRegister, err)
	}

	if err := s.establish(ctx, payload); err != nil {
		log.Error(ctx, ErrorFailedToSave, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedToRegister, err)
	}

	log.Info(ctx, LogLoggedIn)
	return payload.User, nil
}

func (s *Session) establish(ctx context.Context, payload *entities.AuthPayload) error {
	if err := s.Update(ctx, payload.Credentials); err != nil {
		return err
	}
	s.SetUser(payload.User)
	return nil
}

// Logout отзывает refresh токен на сервере (ошибка игнорируется),
// удаляет оба токена и сбрасывает пользователя.
func (s *Session) Logout(ctx context.Context) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodLogout))

	creds, err := s.store.Load(ctx)
	if err == nil && creds.RefreshToken != "" {
		if err := s.auth.Logout(ctx, creds.RefreshToken); err != nil {
			log.Warn(ctx, ErrorRemoteLogoutFails, zap.Error(err))
		}
	}

	if err := s.clear(ctx); err != nil {
		log.Error(ctx, ErrorFailedToClear, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToClear, err)
	}

	s.metrics.Logout(LogoutReasonManual)
	log.Info(ctx, LogLoggedOut)
	return nil
}

// Update сохраняет новую пару токенов и помечает сессию активной.
func (s *Session) Update(ctx context.Context, creds entities.Credentials) error {
	if creds.AccessToken == "" {
		return ErrEmptyCredentials
	}

	if err := s.store.Save(ctx, creds); err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToSave, zap.String("method", LogMethodUpdate), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSave, err)
	}

	s.applyToken(creds.AccessToken)
	return nil
}

// Verify проверяет сохраненную сессию запросом текущего пользователя.
// Без сохраненного токена сессия неактивна и запрос не выполняется.
// Сбои транспорта повторяются; ошибка аутентификации делает сессию неактивной.
func (s *Session) Verify(ctx context.Context, prober services.Prober) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodVerify))

	creds, err := s.store.Load(ctx)
	if err != nil {
		log.Error(ctx, ErrorFailedToVerify, zap.Error(err))
		return false, fmt.Errorf("%s: %w", ErrorFailedToVerify, err)
	}
	if creds.AccessToken == "" {
		s.reset()
		return false, nil
	}

	var user *entities.User
	err = s.probe.Execute(ctx, func(ctx context.Context) error {
		var probeErr error
		user, probeErr = prober.Me(ctx)
		return probeErr
	})
	if err != nil {
		if errors.Is(err, apierr.ErrTransport) {
			log.Warn(ctx, ErrorFailedToVerify, zap.Error(err))
			return false, fmt.Errorf("%s: %w", ErrorFailedToVerify, err)
		}
		log.Info(ctx, LogSessionInvalid, zap.Error(err))
		s.reset()
		return false, nil
	}
	if user == nil {
		s.reset()
		return false, nil
	}

	// Токен мог смениться во время проверки.
	if current, err := s.store.Load(ctx); err == nil && current.AccessToken != "" {
		s.applyToken(current.AccessToken)
	} else {
		s.applyToken(creds.AccessToken)
	}
	s.SetUser(user)

	log.Debug(ctx, LogSessionVerified, zap.String("user_id", user.ID))
	return true, nil
}

// CurrentUser возвращает пользователя сессии. До проверки сессии пользователь
// восстанавливается из claims access токена.
func (s *Session) CurrentUser() *entities.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.authenticated {
		return nil
	}
	if s.user != nil {
		user := *s.user
		return &user
	}
	if s.claims != nil && s.claims.Subject != "" {
		return &entities.User{ID: s.claims.Subject, Username: s.claims.Username}
	}
	return nil
}

// IsAuthenticated сообщает, активна ли сессия.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// SetUser задает пользователя сессии.
func (s *Session) SetUser(user *entities.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user == nil {
		s.user = nil
		return
	}
	u := *user
	s.user = &u
}

// AccessClaims возвращает claims текущего access токена, если он разбирается.
func (s *Session) AccessClaims() *entities.AccessClaims {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.claims == nil {
		return nil
	}
	c := *s.claims
	return &c
}

// OnTokensRefreshed обновляет состояние после обновления токенов координатором.
func (s *Session) OnTokensRefreshed(_ context.Context, creds entities.Credentials) {
	s.applyToken(creds.AccessToken)
}

// OnForcedLogout очищает сессию, когда ее нельзя восстановить.
func (s *Session) OnForcedLogout(ctx context.Context, reason error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodLogout))

	if err := s.clear(ctx); err != nil {
		log.Error(ctx, ErrorFailedToClear, zap.Error(err))
	}

	label := LogoutReasonRefreshFailed
	if errors.Is(reason, apierr.ErrNoRefreshToken) {
		label = LogoutReasonNoRefreshToken
	}
	s.metrics.Logout(label)
	log.Warn(ctx, LogForcedLogout, zap.String("reason", label), zap.Error(reason))
}

func (s *Session) clear(ctx context.Context) error {
	err := s.store.Clear(ctx)
	s.reset()
	return err
}

func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.claims = nil
	s.authenticated = false
}

func (s *Session) applyToken(accessToken string) {
	claims, err := entities.ParseAccessClaims(accessToken)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = accessToken != ""
	if err != nil {
		s.claims = nil
		return
	}
	if s.user != nil && claims.Subject != "" && s.user.ID != claims.Subject {
		s.user = nil
	}
	s.claims = claims
}
