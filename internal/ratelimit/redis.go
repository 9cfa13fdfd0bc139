package ratelimit

import (
	"context"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisLimiter keeps counters in a store shared by every instance of the
// service. When redis is unreachable it degrades to the wrapped in-process
// limiter so limits keep being enforced within this instance.
type RedisLimiter struct {
	client   *redis.Client
	fallback *MemoryLimiter
	logger   *slog.Logger
	prefix   string
	timeout  time.Duration
}

func NewRedisLimiter(addr, password string, db int, logger *slog.Logger) (*RedisLimiter, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisLimiter{
		client:   client,
		fallback: NewMemoryLimiter(),
		logger:   logger,
		prefix:   "newsletter:ratelimit:",
		timeout:  250 * time.Millisecond,
	}, nil
}

func (rl *RedisLimiter) Allow(ctx context.Context, name, key string, limit Limit) Decision {
	if limit.Count <= 0 {
		return Decision{Allowed: true}
	}
	window := limit.Window
	if window <= 0 {
		window = time.Minute
	}

	opCtx, cancel := context.WithTimeout(ctx, rl.timeout)
	defer cancel()

	// INCR and EXPIRE run in one transaction so a counter key can never be
	// left without a TTL; ExpireNX on every hit also repairs any key that
	// ended up TTL-less.
	redisKey := rl.prefix + name + ":" + key
	pipe := rl.client.TxPipeline()
	incr := pipe.Incr(opCtx, redisKey)
	pipe.ExpireNX(opCtx, redisKey, window)
	ttlCmd := pipe.TTL(opCtx, redisKey)
	if _, err := pipe.Exec(opCtx); err != nil {
		rl.logRedisError("pipeline", err)
		return rl.fallback.Allow(ctx, name, key, limit)
	}

	counter := incr.Val()
	ttl := ttlCmd.Val()
	if ttl <= 0 {
		ttl = window
	}
	return Decision{
		Allowed:   int(counter) <= limit.Count,
		Count:     int(counter),
		WindowEnd: time.Now().Add(ttl),
	}
}

func (rl *RedisLimiter) Close() {
	rl.fallback.Close()
	if rl.client != nil {
		_ = rl.client.Close()
	}
}

func (rl *RedisLimiter) logRedisError(op string, err error) {
	if rl.logger == nil {
		return
	}
	rl.logger.Error("redis rate limiter error, using in-memory fallback", "op", op, "error", err)
}
