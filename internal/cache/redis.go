package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hey-granth/profile-guard/internal/config"
	"github.com/redis/go-redis/v9"
)

// LikeCountTTL is refreshed on every read and write.
const LikeCountTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

// KeyForLikeCount generates Redis key for a user's "liked you" count
func (c *RedisCache) KeyForLikeCount(userID uint64) string {
	return fmt.Sprintf("likes:count:%d", userID)
}

// GetLikeCount returns the cached count and whether it was present.
func (c *RedisCache) GetLikeCount(ctx context.Context, userID uint64) (int64, bool, error) {
	key := c.KeyForLikeCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil // treat garbage as a miss
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, LikeCountTTL).Err()
	return n, true, nil
}

// SetLikeCount stores a freshly computed count.
func (c *RedisCache) SetLikeCount(ctx context.Context, userID uint64, count int64) error {
	return c.Client.Set(ctx, c.KeyForLikeCount(userID), count, LikeCountTTL).Err()
}

// InvalidateLikeCounts drops the cached counts of every given user. A swipe
// changes the count of its target, and of its actor when the actor dislikes
// someone who liked them.
func (c *RedisCache) InvalidateLikeCounts(ctx context.Context, userIDs ...uint64) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, c.KeyForLikeCount(id))
	}
	return c.Client.Del(ctx, keys...).Err()
}
