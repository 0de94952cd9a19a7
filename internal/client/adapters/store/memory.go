// Package store содержит реализации хранилища учетных данных сессии.
package store

import (
	"context"
	"sync"
	"time"

	"socialclient/internal/client/domain/entities"
	"socialclient/internal/client/ports/store"
)

// MemoryStore хранит токены в памяти процесса.
type MemoryStore struct {
	mu    sync.RWMutex
	creds entities.Credentials
}

var _ store.Store = (*MemoryStore)(nil)

// NewMemoryStore создает пустое хранилище в памяти.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load возвращает текущие токены.
func (s *MemoryStore) Load(_ context.Context) (entities.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds, nil
}

// Save заменяет пару токенов.
func (s *MemoryStore) Save(_ context.Context, creds entities.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	return nil
}

// Clear удаляет токены.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = entities.Credentials{}
	return nil
}

// TryLock всегда успешен: в пределах процесса обновления объединяет координатор.
func (s *MemoryStore) TryLock(_ context.Context, _ time.Duration) (bool, error) {
	return true, nil
}

// Unlock ничего не делает.
func (s *MemoryStore) Unlock(_ context.Context) error {
	return nil
}

// Close ничего не делает.
func (s *MemoryStore) Close() error {
	return nil
}
