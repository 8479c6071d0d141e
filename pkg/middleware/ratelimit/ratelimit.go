// Package ratelimit provides per-key request rate limiting.
package ratelimit

import (
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/stylevault/stylevault/pkg/middleware/authz"
	"github.com/stylevault/stylevault/pkg/server/router"
)

// RateLimiter decides whether a request for a key may proceed.
// Implementations must be safe for concurrent use.
type RateLimiter interface {
	Allow(key string) bool
}

// TokenBucketLimiter implements per-key token bucket rate limiting.
// Each key gets an independent x/time rate.Limiter held in a sync.Map.
type TokenBucketLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
}

// NewTokenBucketLimiter creates a limiter allowing requestsPerSecond on
// average with bursts up to burst.
func NewTokenBucketLimiter(requestsPerSecond int, burst int) *TokenBucketLimiter {
	return &TokenBucketLimiter{
		rate:  rate.Limit(requestsPerSecond),
		burst: burst,
	}
}

// Allow reports whether a request for key is within its rate limit.
func (l *TokenBucketLimiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

func (l *TokenBucketLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := l.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(l.rate, l.burst)
	actual, _ := l.limiters.LoadOrStore(key, limiter)
	return actual.(*rate.Limiter)
}

// Config defines the configuration for rate limiting middleware.
type Config struct {
	// KeyFunc extracts the rate limiting key from the request context,
	// typically the client IP or the authenticated user.
	KeyFunc func(router.Context) string
}

// RateLimit creates middleware that rejects requests over the limit with
// HTTP 429 and a Retry-After header.
func RateLimit(limiter RateLimiter, cfg Config) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			key := cfg.KeyFunc(c)

			if !limiter.Allow(key) {
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error": "rate limit exceeded",
				})
			}

			return next(c)
		}
	}
}

// ExtractIPFromRequest extracts the client IP, preferring proxy headers
// (X-Forwarded-For, X-Real-IP) over RemoteAddr.
func ExtractIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}

	return addr
}

// ExtractUserIDFromContext returns the authenticated subject for per-user
// rate limiting, or empty when the request is unauthenticated.
func ExtractUserIDFromContext(c router.Context) string {
	return authz.OwnerID(c)
}
