package lock

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client *redis.Client
	log    *zap.Logger

	ttl   time.Duration
	retry time.Duration
}

func NewRedisLocker(client *redis.Client, log *zap.Logger) *RedisLocker {
	return &RedisLocker{
		client: client,
		log:    log,
		ttl:    10 * time.Second,
		retry:  25 * time.Millisecond,
	}
}

// Acquire polls SET NX PX until it wins or ctx is done. The TTL bounds how
// long a crashed holder can block others.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ErrNotAcquired
			}
			return nil, err
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ErrNotAcquired
		case <-time.After(l.retry):
		}
	}

	return func() {
		// Release even if the request context was cancelled meanwhile.
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := releaseScript.Run(rctx, l.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
			l.log.Warn("release lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}
