// Package logging provides HTTP request logging middleware.
package logging

import (
	"strings"
	"time"

	"github.com/stylevault/stylevault/pkg/middleware/requestid"
	"github.com/stylevault/stylevault/pkg/observability/logger"
	"github.com/stylevault/stylevault/pkg/server/router"
)

// Config configures request logging behavior.
type Config struct {
	Enabled bool
	// ExcludedPathPrefixes disables logging for matching paths
	// (health probes, metrics scrapes).
	ExcludedPathPrefixes []string
}

// DefaultConfig returns default request logging behavior.
func DefaultConfig() Config {
	return Config{
		Enabled:              true,
		ExcludedPathPrefixes: []string{},
	}
}

// Logging creates middleware with default configuration.
func Logging(log logger.Logger) router.MiddlewareFunc {
	return WithConfig(log, DefaultConfig())
}

// WithConfig creates middleware that logs one event per completed request:
// method, path, status, duration and the correlation request ID.
func WithConfig(log logger.Logger, cfg Config) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			path := c.Request().URL.Path
			if !cfg.Enabled || excluded(cfg.ExcludedPathPrefixes, path) {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			args := []any{
				"request_id", requestid.GetRequestID(c.Request().Context()),
				"method", c.Request().Method,
				"path", path,
				"status", c.Response().Status(),
				"duration_ms", duration.Milliseconds(),
				"remote_addr", c.Request().RemoteAddr,
			}

			if err != nil {
				log.Error("request failed", append(args, "error", err)...)
				return err
			}

			log.Info("request completed", args...)
			return nil
		}
	}
}

func excluded(prefixes []string, path string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
