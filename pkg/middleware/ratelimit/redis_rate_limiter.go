package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stylevault/stylevault/pkg/observability/logger"
	redisstore "github.com/stylevault/stylevault/pkg/store/redis"
)

// RedisRateLimiter implements a fixed-window distributed counter backed
// by Redis, for enforcing one shared limit across replicas.
type RedisRateLimiter struct {
	store     *redisstore.RedisAdapter
	limit     int
	burst     int
	window    time.Duration
	opTimeout time.Duration
	prefix    string
	log       logger.Logger
}

// NewRedisRateLimiter creates a Redis-backed rate limiter on top of an
// existing Redis adapter.
func NewRedisRateLimiter(
	store *redisstore.RedisAdapter,
	window time.Duration,
	requestsPerSecond, burst int,
	prefix string,
	log logger.Logger,
) (*RedisRateLimiter, error) {
	if store == nil {
		return nil, errors.New("redis adapter is required for distributed rate limiting")
	}
	if requestsPerSecond <= 0 {
		return nil, errors.New("requests_per_second must be greater than zero")
	}
	if burst < 0 {
		return nil, errors.New("burst cannot be negative")
	}
	if window <= 0 {
		window = time.Second
	}
	if prefix == "" {
		prefix = "ratelimit"
	}

	log.Info("redis rate limiter ready",
		"limit", requestsPerSecond,
		"burst", burst,
		"window", window,
		"prefix", prefix,
	)

	return &RedisRateLimiter{
		store:     store,
		limit:     requestsPerSecond,
		burst:     burst,
		window:    window,
		opTimeout: 5 * time.Second,
		prefix:    prefix,
		log:       log,
	}, nil
}

// Allow determines whether the request identified by key can proceed.
func (r *RedisRateLimiter) Allow(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), r.opTimeout)
	defer cancel()

	redisKey := fmt.Sprintf("%s:%s", r.prefix, key)

	count, err := r.store.Incr(ctx, redisKey)
	if err != nil {
		r.log.Error("redis rate limiter increment failed", "error", err)
		// Fail-open to avoid blocking traffic when Redis is unavailable.
		return true
	}

	if count == 1 {
		if err := r.store.Expire(ctx, redisKey, r.window); err != nil {
			r.log.Warn("redis rate limiter failed to set TTL", "error", err)
		}
	}

	limit := int64(r.limit + r.burst)
	return limit == 0 || count <= limit
}
