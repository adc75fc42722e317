package redisstate

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisRateLimitRepository 是 RateLimitRepository 接口的 Redis 实现
type RedisRateLimitRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisRateLimitRepository 创建 RedisRateLimitRepository 实例
func NewRedisRateLimitRepository(client *redis.Client, keyPrefix string) *RedisRateLimitRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisRateLimitRepository")
	}
	if keyPrefix == "" {
		keyPrefix = "blog:"
	}
	return &RedisRateLimitRepository{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (r *RedisRateLimitRepository) rateLimitKey(key string) string {
	return fmt.Sprintf("%sratelimit:%s", r.keyPrefix, key)
}

// CheckRateLimit 检查给定 key 的请求频率是否超限，并递增计数。
func (r *RedisRateLimitRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	fullKey := r.rateLimitKey(key)

	// INCR 与 EXPIRE 放在同一个 Pipeline 中，减少网络往返
	pipe := r.client.Pipeline()
	incrCmd := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis: pipeline failed for rate limit check on key %s: %w", fullKey, err)
	}

	count, err := incrCmd.Result()
	if err != nil {
		return false, fmt.Errorf("redis: failed to get incr result for rate limit on key %s: %w", fullKey, err)
	}
	return count > int64(limit), nil
}
