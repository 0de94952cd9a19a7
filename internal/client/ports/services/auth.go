// Package services определяет интерфейсы сервисов клиента.
package services

import (
	"context"

	"socialclient/internal/client/domain/entities"
)

// Refresher обменивает refresh токен на новую пару токенов.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (entities.Credentials, error)
}

// Authenticator - неаутентифицированные операции сервиса авторизации.
type Authenticator interface {
	Refresher

	Login(ctx context.Context, email, password string) (*entities.AuthPayload, error)

	Register(ctx context.Context, email, username, password string) (*entities.AuthPayload, error)

	// Logout отзывает refresh токен на сервере.
	Logout(ctx context.Context, refreshToken string) error
}

// SessionListener получает уведомления координатора обновления.
type SessionListener interface {
	OnTokensRefreshed(ctx context.Context, creds entities.Credentials)

	// OnForcedLogout вызывается, когда сессию восстановить нельзя.
	OnForcedLogout(ctx context.Context, reason error)
}

// Prober проверяет сессию запросом текущего пользователя.
type Prober interface {
	Me(ctx context.Context) (*entities.User, error)
}
