package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps entries in Redis under a common prefix.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore connects and pings; the caller closes the store at shutdown.
func NewRedisStore(ctx context.Context, addr, password, prefix string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb, prefix: prefix}, nil
}

func (r *RedisStore) Get(ctx context.Context, key string, dest any) bool {
	val, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(val, dest) == nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.prefix+key, data, ttl).Err()
}

func (r *RedisStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = r.prefix + k
	}
	return r.rdb.Del(ctx, prefixed...).Err()
}

func (r *RedisStore) Driver() string { return "redis" }

func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
