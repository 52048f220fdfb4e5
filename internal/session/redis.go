package session

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const sessionsKey = "sessions"

// RedisRegistry keeps the session table in a Redis hash so several
// server processes can share it. Entries are still connection-scoped;
// each gateway unbinds its own connections on close.
type RedisRegistry struct {
	client *redis.Client
}

func NewRedisRegistry(client *redis.Client) *RedisRegistry {
	return &RedisRegistry{client: client}
}

func (r *RedisRegistry) Bind(ctx context.Context, connID, userID uuid.UUID) error {
	return r.client.HSet(ctx, sessionsKey, connID.String(), userID.String()).Err()
}

func (r *RedisRegistry) Lookup(ctx context.Context, connID uuid.UUID) (uuid.UUID, bool, error) {
	value, err := r.client.HGet(ctx, sessionsKey, connID.String()).Result()
	if err == redis.Nil {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}

	userID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, false, err
	}
	return userID, true, nil
}

func (r *RedisRegistry) Unbind(ctx context.Context, connID uuid.UUID) error {
	return r.client.HDel(ctx, sessionsKey, connID.String()).Err()
}
