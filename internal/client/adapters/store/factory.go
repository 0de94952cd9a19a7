package store

import (
	"context"
	"fmt"

	"socialclient/internal/client/config"
	"socialclient/internal/client/ports/store"
)

// ErrUnknownDriver - неизвестный драйвер хранилища.
const ErrUnknownDriver = "unknown credential store driver"

// New создает хранилище учетных данных по конфигурации.
func New(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		return NewMemoryStore(), nil
	case config.StoreDriverFile, "":
		path := cfg.Store.FilePath
		if path == "" {
			var err error
			if path, err = DefaultFilePath(cfg.Store.SessionID); err != nil {
				return nil, err
			}
		}
		return NewFileStore(path), nil
	case config.StoreDriverRedis:
		return NewRedisStore(ctx, &cfg.Redis, cfg.Store.SessionID)
	default:
		return nil, fmt.Errorf("%s: %q", ErrUnknownDriver, cfg.Store.Driver)
	}
}
