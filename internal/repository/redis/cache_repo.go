package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CacheRepo is a JSON view cache over redis. Backend failures and an absent
// client degrade every read to a miss; callers never fail a request because
// the cache is down.
type CacheRepo struct {
	Client *redis.Client
	logger *zap.Logger
}

func NewCacheRepo(client *redis.Client, logger *zap.Logger) *CacheRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheRepo{Client: client, logger: logger}
}

func (r *CacheRepo) available() bool {
	return r.Client != nil
}

func (r *CacheRepo) Get(ctx context.Context, key string, dest any) (bool, error) {
	if !r.available() {
		return false, nil
	}

	val, err := r.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		r.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, nil
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		r.logger.Warn("cache entry is not valid JSON, dropping it", zap.String("key", key), zap.Error(err))
		_ = r.Client.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func (r *CacheRepo) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !r.available() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.Client.Set(ctx, key, data, ttl).Err(); err != nil {
		r.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

func (r *CacheRepo) Delete(ctx context.Context, key string) error {
	if !r.available() {
		return nil
	}
	return r.Client.Del(ctx, key).Err()
}

// DeletePattern removes every key matching pattern via SCAN, so the bulk
// invalidation never blocks redis the way KEYS would.
func (r *CacheRepo) DeletePattern(ctx context.Context, pattern string) (int, error) {
	if !r.available() {
		return 0, nil
	}

	var keys []string
	iter := r.Client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	deleted, err := r.Client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, err
	}
	return int(deleted), nil
}
