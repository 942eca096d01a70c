package statestore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists wizard state in Redis, one hash per client key. An
// optional TTL lets abandoned applications age out; every write refreshes it.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

type RedisOption func(*RedisStore)

// WithTTL sets the idle expiry applied to each client's state hash.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = ttl }
}

func NewRedisStore(client redis.Cmdable, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func redisKey(clientKey string) string {
	return "engage:wizard:" + clientKey
}

func (s *RedisStore) Read(ctx context.Context, clientKey, field string) ([]byte, bool, error) {
	value, err := s.client.HGet(ctx, redisKey(clientKey), field).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read wizard state %s/%s: %w", clientKey, field, err)
	}
	return value, true, nil
}

func (s *RedisStore) Write(ctx context.Context, clientKey, field string, value []byte) error {
	key := redisKey(clientKey)
	if err := s.client.HSet(ctx, key, field, value).Err(); err != nil {
		return fmt.Errorf("write wizard state %s/%s: %w", clientKey, field, err)
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
			return fmt.Errorf("refresh wizard state ttl %s: %w", clientKey, err)
		}
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, clientKey string) error {
	if err := s.client.Del(ctx, redisKey(clientKey)).Err(); err != nil {
		return fmt.Errorf("clear wizard state %s: %w", clientKey, err)
	}
	return nil
}
