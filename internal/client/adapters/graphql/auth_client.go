package graphql

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"socialclient/internal/client/domain/apierr"
	"socialclient/internal/client/domain/entities"
	"socialclient/internal/client/ports/services"
	"socialclient/internal/client/ports/transport"
	"socialclient/pkg/logger"
	"socialclient/pkg/redact"
)

// Константы для логирования.
const (
	LogMethodRegister = "Register"
	LogMethodLogin    = "Login"
	LogMethodRefresh  = "Refresh"
	LogMethodLogout   = "Logout"

	ErrorFailedToRegister = "failed to register user"
	ErrorFailedToLogin    = "failed to login"
	ErrorFailedToRefresh  = "failed to refresh tokens"
	ErrorFailedToLogout   = "failed to logout"
)

const userFields = `id username email avatar`

const (
	loginMutation = `mutation Login($email: String!, $password: String!) {
  login(email: $email, password: $password) { token refreshToken user { ` + userFields + ` } }
}`
	registerMutation = `mutation Register($email: String!, $username: String!, $password: String!) {
  register(email: $email, username: $username, password: $password) { token refreshToken user { ` + userFields + ` } }
}`
	refreshMutation = `mutation RefreshToken($refreshToken: String!) {
  refreshToken(refreshToken: $refreshToken) { token refreshToken }
}`
	logoutMutation = `mutation Logout($refreshToken: String!) {
  logout(refreshToken: $refreshToken)
}`
)

// AuthClient выполняет операции авторизации без bearer токена и без обработки обновления.
type AuthClient struct {
	transport transport.GraphQL
}

var _ services.Authenticator = (*AuthClient)(nil)

// NewAuthClient создает клиент авторизации поверх транспорта.
func NewAuthClient(t transport.GraphQL) *AuthClient {
	return &AuthClient{transport: t}
}

// Register регистрирует нового пользователя.
func (c *AuthClient) Register(ctx context.Context, email, username, password string) (*entities.AuthPayload, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodRegister), zap.String("email", redact.Email(email)))

	var out struct {
		Register *entities.AuthPayload `json:"register"`
	}
	op := entities.Operation{
		Query:         registerMutation,
		OperationName: "Register",
		Variables:     map[string]any{"email": email, "username": username, "password": password},
	}
	if err := c.call(ctx, op, &out); err != nil {
		log.Error(ctx, ErrorFailedToRegister, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedToRegister, err)
	}
	if out.Register == nil || out.Register.AccessToken == "" {
		return nil, fmt.Errorf("%s: %w", ErrorFailedToRegister, apierr.ErrInvalidResponse)
	}

	return out.Register, nil
}

// Login выполняет вход пользователя.
func (c *AuthClient) Login(ctx context.Context, email, password string) (*entities.AuthPayload, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodLogin), zap.String("email", redact.Email(email)))

	var out struct {
		Login *entities.AuthPayload `json:"login"`
	}
	op := entities.Operation{
		Query:         loginMutation,
		OperationName: "Login",
		Variables:     map[string]any{"email": email, "password": password},
	}
	if err := c.call(ctx, op, &out); err != nil {
		log.Error(ctx, ErrorFailedToLogin, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedToLogin, err)
	}
	if out.Login == nil || out.Login.AccessToken == "" {
		return nil, fmt.Errorf("%s: %w", ErrorFailedToLogin, apierr.ErrInvalidResponse)
	}

	return out.Login, nil
}

// Refresh обменивает refresh токен на новую пару.
func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (entities.Credentials, error) {
	var out struct {
		RefreshToken *entities.Credentials `json:"refreshToken"`
	}
	op := entities.Operation{
		Query:         refreshMutation,
		OperationName: "RefreshToken",
		Variables:     map[string]any{"refreshToken": refreshToken},
	}
	if err := c.call(ctx, op, &out); err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToRefresh, zap.String("method", LogMethodRefresh), zap.Error(err))
		return entities.Credentials{}, fmt.Errorf("%s: %w", ErrorFailedToRefresh, err)
	}
	if out.RefreshToken == nil {
		return entities.Credentials{}, fmt.Errorf("%s: %w", ErrorFailedToRefresh, apierr.ErrInvalidResponse)
	}

	return *out.RefreshToken, nil
}

// Logout отзывает refresh токен на сервере.
func (c *AuthClient) Logout(ctx context.Context, refreshToken string) error {
	op := entities.Operation{
		Query:         logoutMutation,
		OperationName: "Logout",
		Variables:     map[string]any{"refreshToken": refreshToken},
	}
	if err := c.call(ctx, op, nil); err != nil {
		logger.Log(ctx).Warn(ctx, ErrorFailedToLogout, zap.String("method", LogMethodLogout), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToLogout, err)
	}
	return nil
}

func (c *AuthClient) call(ctx context.Context, op entities.Operation, out any) error {
	resp, err := c.transport.Do(ctx, op, "")
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("%w: %w", apierr.ErrInvalidResponse, err)
	}
	return nil
}
