package viewstate

import (
	"context"
	"errors"
	"time"

	r "github.com/redis/go-redis/v9"
	"github.com/scienceol/labinv/pkg/common/code"
	"github.com/scienceol/labinv/pkg/common/uuid"
	"github.com/scienceol/labinv/pkg/middleware/logger"
	"github.com/scienceol/labinv/pkg/repo"
)

type RedisStore struct {
	client *r.Client
}

func NewRedisStore(client *r.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, r.Nil) {
		return nil, repo.ErrStateNotFound
	}
	if err != nil {
		logger.Errorf(ctx, "redis get state key: %s, err: %+v", key, err)
		return nil, code.ViewStateLoadErr.WithErr(err)
	}
	return data, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, keyPrefix+key, value, ttl).Err(); err != nil {
		logger.Errorf(ctx, "redis set state key: %s, err: %+v", key, err)
		return code.ViewStateSaveErr.WithErr(err)
	}
	return nil
}

func (s *RedisStore) Del(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		logger.Errorf(ctx, "redis del state key: %s, err: %+v", key, err)
		return code.ViewStateSaveErr.WithErr(err)
	}
	return nil
}

const lockRetry = 50 * time.Millisecond

var unlockScript = r.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a SETNX lock shared by every api replica. The ttl bounds how
// long a crashed holder can block others.
type RedisLocker struct {
	client *r.Client
}

func NewRedisLocker(client *r.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Lock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	lockKey := keyPrefix + "lock:" + key
	token := uuid.NewV4().String()

	ticker := time.NewTicker(lockRetry)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
		if err != nil {
			logger.Errorf(ctx, "redis lock key: %s, err: %+v", key, err)
			return nil, code.LockAcquireErr.WithErr(err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, code.LockAcquireErr.WithErr(ctx.Err())
		case <-ticker.C:
		}
	}

	return func() {
		// the request context may already be cancelled here
		if err := unlockScript.Run(context.Background(), l.client, []string{lockKey}, token).Err(); err != nil {
			logger.Errorf(ctx, "redis unlock key: %s, err: %+v", key, err)
		}
	}, nil
}
