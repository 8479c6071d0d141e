// Command stylevault runs the fashion record service: a public API
// server for the record resources and a management server for health
// and metrics.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stylevault/stylevault/pkg/auth"
	"github.com/stylevault/stylevault/pkg/config"
	"github.com/stylevault/stylevault/pkg/fashion"
	"github.com/stylevault/stylevault/pkg/health"
	"github.com/stylevault/stylevault/pkg/middleware/ratelimit"
	"github.com/stylevault/stylevault/pkg/observability/logger"
	"github.com/stylevault/stylevault/pkg/server"
	ginrouter "github.com/stylevault/stylevault/pkg/server/router/gin"
	"github.com/stylevault/stylevault/pkg/store/mongodb"
	redisstore "github.com/stylevault/stylevault/pkg/store/redis"
)

const envPrefix = "STYLEVAULT"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "stylevault",
		Short: "StyleVault fashion record service",
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config-file", "c", "", "config file path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP servers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, configFile)
		},
	}
	rootCmd.AddCommand(serveCmd)

	return rootCmd
}

func serve(ctx context.Context, configFile string) error {
	cfg, err := config.NewViperLoader(configFile, envPrefix).Load()
	if err != nil {
		return err
	}

	log, err := logger.NewZapLogger(logger.Config{
		Level:  logger.LogLevel(strings.ToLower(cfg.Observability.Logging.Level)),
		Format: logger.LogFormat(strings.ToLower(cfg.Observability.Logging.Format)),
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	log.Info("starting service",
		"service", cfg.Service.Name,
		"environment", cfg.Service.Environment,
	)

	store, err := mongodb.NewAdapter(mongodb.Config{
		URL:              cfg.Database.MongoDB.URL,
		Database:         cfg.Database.MongoDB.Database,
		ConnectTimeout:   cfg.Database.MongoDB.ConnectTimeout,
		OperationTimeout: cfg.Database.MongoDB.OperationTimeout,
	}, log)
	if err != nil {
		return fmt.Errorf("connect to mongodb: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("mongodb close failed", "error", err)
		}
	}()

	healthRegistry := health.NewRegistry()
	healthRegistry.Register(health.NewDatabaseChecker("mongodb", store))

	var cache *redisstore.RedisAdapter
	if cfg.Cache.Enabled {
		cache, err = redisstore.NewRedisAdapter(redisstore.Config{
			URL:              cfg.Cache.Redis.URL,
			MaxConns:         cfg.Cache.Redis.MaxConns,
			OperationTimeout: cfg.Cache.Redis.OperationTimeout,
		}, log)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				log.Error("redis close failed", "error", err)
			}
		}()
		healthRegistry.Register(health.NewCacheChecker("redis", cache))
	}

	var validator auth.JWTValidator
	if cfg.Auth.Enabled {
		validator, err = auth.NewHMACValidator([]byte(cfg.Auth.Secret), cfg.Auth.Issuer, cfg.Auth.Audience)
		if err != nil {
			return fmt.Errorf("create token validator: %w", err)
		}
	}

	limiter, err := buildRateLimiter(cfg, cache, log)
	if err != nil {
		return err
	}

	services, err := fashion.NewServices(store, log)
	if err != nil {
		return fmt.Errorf("build catalog services: %w", err)
	}

	publicServer := server.NewPublicAPIServer(server.PublicAPIOptions{
		HTTP:          cfg.HTTP,
		Observability: cfg.Observability,
		RateLimiter:   limiter,
		Validator:     validator,
	}, ginrouter.NewRouter(), log)
	fashion.RegisterRoutes(publicServer.AuthenticatedGroup("/api/v1"), services)

	servers := []interface {
		Start(context.Context) error
	}{publicServer}

	if cfg.Management.Enabled {
		servers = append(servers, server.NewManagementServer(
			cfg.Management, ginrouter.NewRouter(), log, healthRegistry))
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		srv := srv
		go func() { errCh <- srv.Start(runCtx) }()
	}

	var firstErr error
	for range servers {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
			cancel()
		}
	}
	return firstErr
}

func buildRateLimiter(cfg *config.Config, cache *redisstore.RedisAdapter, log logger.Logger) (ratelimit.RateLimiter, error) {
	if !cfg.RateLimit.Enabled {
		return nil, nil
	}

	if strings.ToLower(cfg.RateLimit.Backend) == config.RateLimitBackendRedis {
		limiter, err := ratelimit.NewRedisRateLimiter(
			cache,
			cfg.RateLimit.Window,
			cfg.RateLimit.RequestsPerSecond,
			cfg.RateLimit.Burst,
			"ratelimit",
			log,
		)
		if err != nil {
			return nil, fmt.Errorf("create redis rate limiter: %w", err)
		}
		return limiter, nil
	}

	return ratelimit.NewTokenBucketLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst), nil
}
