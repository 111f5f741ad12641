package repo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sessions live exactly as long as the browser cookie.
const sessionTTL = 24 * time.Hour

const sessionKeyPrefix = "session:"

type RedisSessionStorage struct {
	client *redis.Client
}

func NewRedisSessionStorage(client *redis.Client) *RedisSessionStorage {
	return &RedisSessionStorage{client: client}
}

func (r *RedisSessionStorage) StoreSession(ctx context.Context, sessionID string, userID string) error {
	return r.client.Set(ctx, sessionKeyPrefix+sessionID, userID, sessionTTL).Err()
}

func (r *RedisSessionStorage) GetUserIDBySession(ctx context.Context, sessionID string) (string, bool) {
	v, err := r.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Error(err.Error())
		}
		return "", false
	}
	return v, true
}

func (r *RedisSessionStorage) DeleteSession(ctx context.Context, sessionID string) bool {
	n, err := r.client.Del(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		slog.Error(err.Error())
		return false
	}
	return n > 0
}
