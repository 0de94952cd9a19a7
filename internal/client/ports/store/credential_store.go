// Package store определяет интерфейсы хранилища учетных данных сессии.
package store

import (
	"context"
	"time"

	"socialclient/internal/client/domain/entities"
)

// CredentialStore хранит пару токенов одной сессии под ключами token и refreshToken.
type CredentialStore interface {
	// Load возвращает сохраненные токены; отсутствие токенов не является ошибкой.
	Load(ctx context.Context) (entities.Credentials, error)

	Save(ctx context.Context, creds entities.Credentials) error

	// Clear удаляет оба ключа.
	Clear(ctx context.Context) error

	Close() error
}

// RefreshLocker - межпроцессная блокировка обновления сессии.
type RefreshLocker interface {
	TryLock(ctx context.Context, ttl time.Duration) (bool, error)

	Unlock(ctx context.Context) error
}

// Store объединяет хранилище и блокировку.
type Store interface {
	CredentialStore
	RefreshLocker
}
