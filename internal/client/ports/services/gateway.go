package services

import (
	"context"

	"socialclient/internal/client/domain/entities"
)

// SessionManager - операции сессии, доступные через локальный шлюз.
type SessionManager interface {
	Login(ctx context.Context, email, password string) (*entities.User, error)
	Logout(ctx context.Context) error
	CurrentUser() *entities.User
	IsAuthenticated() bool
}

// OperationExecutor выполняет GraphQL операции с учетными данными сессии.
type OperationExecutor interface {
	Execute(ctx context.Context, op entities.Operation) (*entities.Response, error)
}
