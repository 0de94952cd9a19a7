package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"socialclient/internal/client/config"
	"socialclient/internal/client/domain/entities"
	"socialclient/internal/client/ports/store"
	pkgredis "socialclient/pkg/db/redis"
	"socialclient/pkg/logger"
)

// Константы для логирования Redis хранилища.
const (
	LogMethodRedisLoad   = "redis.load"
	LogMethodRedisSave   = "redis.save"
	LogMethodRedisClear  = "redis.clear"
	LogMethodRedisLock   = "redis.lock"
	LogMethodRedisUnlock = "redis.unlock"

	ErrorFailedToLoad    = "failed to load credentials from redis"
	ErrorFailedToSave    = "failed to save credentials to redis"
	ErrorFailedToClear   = "failed to clear credentials in redis"
	ErrorFailedToLock    = "failed to acquire refresh lock"
	ErrorFailedToUnlock  = "failed to release refresh lock"
	ErrorFailedToClose   = "failed to close redis connection"

	keyRefreshLock = "refresh_lock"
)

// unlockScript удаляет блокировку, только если она принадлежит вызывающему.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore хранит токены сессии в Redis, чтобы их разделяли несколько процессов.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	owner  string
}

var _ store.Store = (*RedisStore)(nil)

// NewRedisStore подключается к Redis и проверяет соединение.
func NewRedisStore(ctx context.Context, cfg *config.RedisConfig, sessionID string) (*RedisStore, error) {
	client, err := pkgredis.Connect(ctx, &pkgredis.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdle,
		DialTimeout:     cfg.ConnectTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ConnMaxIdleTime: cfg.IdleTimeout,
		ConnMaxLifetime: cfg.MaxConnLifetime,
		PingTimeout:     cfg.ConnectTimeout,
	})
	if err != nil {
		return nil, err
	}

	return &RedisStore{
		client: client,
		prefix: cfg.KeyPrefix + sessionID + ":",
		ttl:    cfg.CredentialTTL,
		owner:  uuid.NewString(),
	}, nil
}

func (s *RedisStore) key(name string) string {
	return s.prefix + name
}

// Load читает оба токена одним MGET.
func (s *RedisStore) Load(ctx context.Context) (entities.Credentials, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodRedisLoad))

	values, err := s.client.MGet(ctx, s.key(entities.KeyAccessToken), s.key(entities.KeyRefreshToken)).Result()
	if err != nil {
		log.Error(ctx, ErrorFailedToLoad, zap.Error(err))
		return entities.Credentials{}, fmt.Errorf("%s: %w", ErrorFailedToLoad, err)
	}

	var creds entities.Credentials
	if v, ok := values[0].(string); ok {
		creds.AccessToken = v
	}
	if v, ok := values[1].(string); ok {
		creds.RefreshToken = v
	}
	return creds, nil
}

// Save записывает пару токенов в одной транзакции. Пустой токен удаляет ключ.
func (s *RedisStore) Save(ctx context.Context, creds entities.Credentials) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodRedisSave))

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		s.setOrDelete(ctx, pipe, entities.KeyAccessToken, creds.AccessToken)
		s.setOrDelete(ctx, pipe, entities.KeyRefreshToken, creds.RefreshToken)
		return nil
	})
	if err != nil {
		log.Error(ctx, ErrorFailedToSave, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSave, err)
	}
	return nil
}

func (s *RedisStore) setOrDelete(ctx context.Context, pipe redis.Pipeliner, name, value string) {
	if value == "" {
		pipe.Del(ctx, s.key(name))
		return
	}
	pipe.Set(ctx, s.key(name), value, s.ttl)
}

// Clear удаляет оба ключа.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key(entities.KeyAccessToken), s.key(entities.KeyRefreshToken)).Err(); err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToClear, zap.String("method", LogMethodRedisClear), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToClear, err)
	}
	return nil
}

// TryLock выполняет SET NX PX для ключа блокировки обновления.
func (s *RedisStore) TryLock(ctx context.Context, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.key(keyRefreshLock), s.owner, ttl).Result()
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToLock, zap.String("method", LogMethodRedisLock), zap.Error(err))
		return false, fmt.Errorf("%s: %w", ErrorFailedToLock, err)
	}
	return ok, nil
}

// Unlock снимает блокировку, если она все еще принадлежит этому процессу.
func (s *RedisStore) Unlock(ctx context.Context) error {
	if err := unlockScript.Run(ctx, s.client, []string{s.key(keyRefreshLock)}, s.owner).Err(); err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToUnlock, zap.String("method", LogMethodRedisUnlock), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToUnlock, err)
	}
	return nil
}

// Close закрывает соединение с Redis.
func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToClose, err)
	}
	return nil
}
