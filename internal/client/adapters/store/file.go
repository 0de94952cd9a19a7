package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"socialclient/internal/client/domain/entities"
	"socialclient/internal/client/ports/store"
	"socialclient/pkg/logger"
)

// Константы для логирования файлового хранилища.
const (
	LogMethodFileLoad   = "file.load"
	LogMethodFileSave   = "file.save"
	LogMethodFileClear  = "file.clear"
	LogMethodFileLock   = "file.lock"
	LogStaleLockRemoved = "stale refresh lock removed"

	ErrorFailedToReadFile   = "failed to read credentials file"
	ErrorFailedToDecodeFile = "failed to decode credentials file"
	ErrorFailedToWriteFile  = "failed to write credentials file"
	ErrorFailedToRemoveFile = "failed to remove credentials file"
	ErrorFailedToLockFile   = "failed to create refresh lock file"

	lockSuffix = ".lock"
	fileMode   = 0o600
	dirMode    = 0o700
)

// FileStore хранит токены в YAML файле с правами 0600.
// Блокировка обновления реализована lock-файлом рядом с файлом токенов.
type FileStore struct {
	path string
	mu   sync.Mutex
}

var _ store.Store = (*FileStore)(nil)

// NewFileStore создает файловое хранилище по указанному пути.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultFilePath возвращает путь к файлу сессии в пользовательском каталоге конфигурации.
func DefaultFilePath(sessionID string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "socialclient", "session-"+sessionID+".yaml"), nil
}

// Path возвращает путь к файлу токенов.
func (s *FileStore) Path() string {
	return s.path
}

// Load читает токены. Отсутствующий файл означает пустую сессию.
func (s *FileStore) Load(ctx context.Context) (entities.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.Log(ctx).With(zap.String("method", LogMethodFileLoad), zap.String("path", s.path))

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return entities.Credentials{}, nil
		}
		log.Error(ctx, ErrorFailedToReadFile, zap.Error(err))
		return entities.Credentials{}, fmt.Errorf("%s: %w", ErrorFailedToReadFile, err)
	}

	var creds entities.Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		log.Error(ctx, ErrorFailedToDecodeFile, zap.Error(err))
		return entities.Credentials{}, fmt.Errorf("%s: %w", ErrorFailedToDecodeFile, err)
	}

	return creds, nil
}

// Save атомарно заменяет файл токенов через временный файл и rename.
func (s *FileStore) Save(ctx context.Context, creds entities.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.Log(ctx).With(zap.String("method", LogMethodFileSave), zap.String("path", s.path))

	data, err := yaml.Marshal(creds)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToWriteFile, err)
	}

	if err := s.writeAtomic(data); err != nil {
		log.Error(ctx, ErrorFailedToWriteFile, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToWriteFile, err)
	}

	return nil
}

func (s *FileStore) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, s.path)
}

// Clear удаляет файл токенов.
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Log(ctx).Error(ctx, ErrorFailedToRemoveFile,
			zap.String("method", LogMethodFileClear),
			zap.String("path", s.path),
			zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToRemoveFile, err)
	}
	return nil
}

// TryLock создает lock-файл эксклюзивно. Lock-файл старше ttl считается брошенным.
func (s *FileStore) TryLock(ctx context.Context, ttl time.Duration) (bool, error) {
	lockPath := s.path + lockSuffix
	if err := os.MkdirAll(filepath.Dir(lockPath), dirMode); err != nil {
		return false, fmt.Errorf("%s: %w", ErrorFailedToLockFile, err)
	}

	for range 2 {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, fileMode)
		if err == nil {
			return true, f.Close()
		}
		if !errors.Is(err, fs.ErrExist) {
			return false, fmt.Errorf("%s: %w", ErrorFailedToLockFile, err)
		}

		info, statErr := os.Stat(lockPath)
		if statErr != nil {
			if errors.Is(statErr, fs.ErrNotExist) {
				continue
			}
			return false, fmt.Errorf("%s: %w", ErrorFailedToLockFile, statErr)
		}
		if time.Since(info.ModTime()) < ttl {
			return false, nil
		}

		logger.Log(ctx).Warn(ctx, LogStaleLockRemoved,
			zap.String("method", LogMethodFileLock),
			zap.String("path", lockPath))
		if err := os.Remove(lockPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("%s: %w", ErrorFailedToLockFile, err)
		}
	}

	return false, nil
}

// Unlock удаляет lock-файл.
func (s *FileStore) Unlock(_ context.Context) error {
	if err := os.Remove(s.path + lockSuffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Close ничего не делает.
func (s *FileStore) Close() error {
	return nil
}
