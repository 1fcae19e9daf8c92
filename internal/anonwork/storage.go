package anonwork

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage is the small key-value capability the tracker runs on. Modeling
// it as an injected interface gives non-browser-equivalent contexts (tests,
// deployments without Redis) a well-defined "unavailable" behavior instead
// of a platform check.
type Storage interface {
	// Get returns the value at key, or "" with ok=false when absent or when
	// the store cannot be reached.
	Get(ctx context.Context, key string) (value string, ok bool)

	// Set writes key=value with the given lifetime.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Del removes the keys.
	Del(ctx context.Context, keys ...string) error
}

// RedisStorage implements Storage over a Redis client.
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage creates storage backed by the given client.
func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

func (s *RedisStorage) Get(ctx context.Context, key string) (string, bool) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return value, true
}

func (s *RedisStorage) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStorage) Del(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}
