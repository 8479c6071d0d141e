package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stylevault/stylevault/pkg/config"
	"github.com/stylevault/stylevault/pkg/health"
	"github.com/stylevault/stylevault/pkg/middleware/recovery"
	"github.com/stylevault/stylevault/pkg/middleware/requestid"
	"github.com/stylevault/stylevault/pkg/observability/logger"
	"github.com/stylevault/stylevault/pkg/server/router"
)

// ManagementServer serves health checks and metrics on a separate port
// from the public API.
type ManagementServer struct {
	*Server
	healthRegistry *health.Registry
}

// NewManagementServer creates the management server with its standard
// endpoints:
//   - /health/live: liveness check, always 200
//   - /health/ready: readiness check over the registered dependencies
//   - /metrics: Prometheus metrics
func NewManagementServer(
	cfg config.ManagementConfig,
	r router.Router,
	log logger.Logger,
	healthRegistry *health.Registry,
) *ManagementServer {
	r.Use(
		requestid.RequestID(),
		recovery.Recovery(log),
	)

	serverCfg := Config{
		Port:         cfg.Port,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	s := &ManagementServer{
		Server:         NewServer(serverCfg, r, log),
		healthRegistry: healthRegistry,
	}

	r.GET("/health/live", s.handleLive)
	r.GET("/health/ready", s.handleReady)
	r.GET("/metrics", s.handleMetrics)

	return s
}

// handleLive reports that the process is alive without touching any
// dependency.
func (s *ManagementServer) handleLive(c router.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "healthy",
	})
}

// handleReady runs every registered health check and reports 503 when
// any dependency is unhealthy.
func (s *ManagementServer) handleReady(c router.Context) error {
	result := s.healthRegistry.Check(c.Request().Context())
	if !result.IsHealthy() {
		return c.JSON(http.StatusServiceUnavailable, result)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *ManagementServer) handleMetrics(c router.Context) error {
	promhttp.Handler().ServeHTTP(c.Response(), c.Request())
	return nil
}
