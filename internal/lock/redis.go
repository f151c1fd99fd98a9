package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "aidiagram:generating:"

// releaseScript deletes the key only if it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker shares the guard between replicas behind one load balancer.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocker(addr, password string, db int, ttl time.Duration) *RedisLocker {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisLockerWithClient(rdb, ttl)
}

func NewRedisLockerWithClient(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisLocker) Acquire(ctx context.Context, key string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, keyPrefix+key, token, r.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (r *RedisLocker) Release(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, r.client, []string{keyPrefix + key}, token).Err(); err != nil {
		return fmt.Errorf("redis release: %w", err)
	}
	return nil
}

func (r *RedisLocker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisLocker) Close() error {
	return r.client.Close()
}
