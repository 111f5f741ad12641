package repo

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const onlineSetKey = "online:users"

// RedisPresenceStorage tracks who is online in a sorted set scored by
// last-seen time (unix ms), so a single range query both prunes stale
// members and returns the fresh ones.
type RedisPresenceStorage struct {
	client *redis.Client
}

func NewRedisPresenceStorage(client *redis.Client) *RedisPresenceStorage {
	return &RedisPresenceStorage{client: client}
}

func (r *RedisPresenceStorage) MarkOnline(ctx context.Context, userID string, seenAt time.Time) error {
	return r.client.ZAdd(ctx, onlineSetKey, redis.Z{
		Score:  float64(seenAt.UnixMilli()),
		Member: userID,
	}).Err()
}

func (r *RedisPresenceStorage) MarkOffline(ctx context.Context, userID string) error {
	return r.client.ZRem(ctx, onlineSetKey, userID).Err()
}

// OnlineSince drops members last seen before horizon and returns the rest.
func (r *RedisPresenceStorage) OnlineSince(ctx context.Context, horizon time.Time) ([]string, error) {
	cutoff := strconv.FormatInt(horizon.UnixMilli(), 10)

	if err := r.client.ZRemRangeByScore(ctx, onlineSetKey, "-inf", "("+cutoff).Err(); err != nil {
		return nil, err
	}
	return r.client.ZRangeByScore(ctx, onlineSetKey, &redis.ZRangeBy{
		Min: cutoff,
		Max: "+inf",
	}).Result()
}

func (r *RedisPresenceStorage) Clear(ctx context.Context) error {
	return r.client.Del(ctx, onlineSetKey).Err()
}
