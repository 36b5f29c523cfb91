package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed Store implementation. Sessions survive process
// restarts and expire through the key TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore returns a session store backed by the given Redis client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "session:",
		ttl:    ttl,
	}
}

func (s *RedisStore) Create(ctx context.Context, userID string) (string, error) {
	sessionID := uuid.New().String()

	err := s.client.Set(ctx, s.prefix+sessionID, userID, s.ttl).Err()
	if err != nil {
		return "", err
	}

	return sessionID, nil
}

func (s *RedisStore) Resolve(ctx context.Context, sessionID string) (string, error) {
	userID, err := s.client.Get(ctx, s.prefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoSession
		}

		return "", err
	}

	return userID, nil
}

func (s *RedisStore) Destroy(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.prefix+sessionID).Err()
}
