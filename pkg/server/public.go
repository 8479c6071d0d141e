package server

import (
	"github.com/stylevault/stylevault/pkg/auth"
	"github.com/stylevault/stylevault/pkg/config"
	"github.com/stylevault/stylevault/pkg/middleware/authz"
	"github.com/stylevault/stylevault/pkg/middleware/logging"
	metricsmw "github.com/stylevault/stylevault/pkg/middleware/metrics"
	"github.com/stylevault/stylevault/pkg/middleware/ratelimit"
	"github.com/stylevault/stylevault/pkg/middleware/recovery"
	"github.com/stylevault/stylevault/pkg/middleware/requestid"
	"github.com/stylevault/stylevault/pkg/observability/logger"
	"github.com/stylevault/stylevault/pkg/server/router"
)

// PublicAPIServer wraps Server for application traffic.
type PublicAPIServer struct {
	*Server
	validator auth.JWTValidator
}

// PublicAPIOptions carries the collaborators for the public API server.
// RateLimiter is optional; when nil no rate limiting is applied.
// Validator is required when callers mount authenticated groups.
type PublicAPIOptions struct {
	HTTP          config.HTTPConfig
	Observability config.ObservabilityConfig
	RateLimiter   ratelimit.RateLimiter
	Validator     auth.JWTValidator
}

// NewPublicAPIServer creates the public API server with the standard
// middleware stack, applied in order: request ID, logging, recovery,
// metrics, rate limiting.
func NewPublicAPIServer(opts PublicAPIOptions, r router.Router, log logger.Logger) *PublicAPIServer {
	middleware := []router.MiddlewareFunc{
		requestid.RequestID(),
		logging.WithConfig(log, logging.Config{
			Enabled:              opts.Observability.RequestLogging.Enabled,
			ExcludedPathPrefixes: opts.Observability.RequestLogging.ExcludedPathPrefixes,
		}),
		recovery.Recovery(log),
		metricsmw.Metrics(),
	}
	if opts.RateLimiter != nil {
		middleware = append(middleware, ratelimit.RateLimit(opts.RateLimiter, ratelimit.Config{
			KeyFunc: func(c router.Context) string {
				return ratelimit.ExtractIPFromRequest(c.Request())
			},
		}))
	}
	r.Use(middleware...)

	serverCfg := Config{
		Port:         opts.HTTP.Port,
		ReadTimeout:  opts.HTTP.ReadTimeout,
		WriteTimeout: opts.HTTP.WriteTimeout,
		IdleTimeout:  opts.HTTP.IdleTimeout,
	}

	return &PublicAPIServer{
		Server:    NewServer(serverCfg, r, log),
		validator: opts.Validator,
	}
}

// AuthenticatedGroup returns a route group under prefix that requires a
// valid bearer token. The token subject becomes the record owner.
func (s *PublicAPIServer) AuthenticatedGroup(prefix string) router.Router {
	if s.validator == nil {
		return s.router.Group(prefix)
	}
	return s.router.Group(prefix, authz.Authenticate(s.validator))
}
