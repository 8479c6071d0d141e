// Package config loads and validates service configuration with
// precedence ENV > file > defaults.
package config

import "time"

// Rate limit backend constants
const (
	// RateLimitBackendMemory keeps per-key token buckets in process memory
	RateLimitBackendMemory = "memory"
	// RateLimitBackendRedis counts requests in Redis fixed windows
	RateLimitBackendRedis = "redis"
)

// Config is the root configuration structure for the service
type Config struct {
	Service       ServiceConfig
	HTTP          HTTPConfig
	Management    ManagementConfig
	Auth          AuthConfig
	Database      DatabaseConfig
	Cache         CacheConfig
	RateLimit     RateLimitConfig `mapstructure:"rate_limit"`
	Observability ObservabilityConfig
}

// ServiceConfig configures service identity metadata.
type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// HTTPConfig configures the public API server
type HTTPConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	MaxRequestSize int64         `mapstructure:"max_request_size"`
}

// ManagementConfig configures the management server serving health and
// metrics endpoints.
type ManagementConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AuthConfig configures bearer token authentication on the public API.
type AuthConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Secret   string `mapstructure:"secret"`
	Issuer   string `mapstructure:"issuer"`
	Audience string `mapstructure:"audience"`
}

// DatabaseConfig configures the record store.
type DatabaseConfig struct {
	MongoDB MongoDBConfig `mapstructure:"mongodb"`
}

// MongoDBConfig configures the MongoDB connection.
type MongoDBConfig struct {
	URL              string        `mapstructure:"url"`
	Database         string        `mapstructure:"database"`
	ConnectTimeout   time.Duration `mapstructure:"connect_timeout"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
}

// CacheConfig configures the optional Redis connection used by the
// distributed rate limiter.
type CacheConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	Redis   RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the Redis connection.
type RedisConfig struct {
	URL              string        `mapstructure:"url"`
	MaxConns         int           `mapstructure:"max_conns"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
}

// RateLimitConfig configures request rate limiting on the public API.
type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerSecond int           `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	Backend           string        `mapstructure:"backend"`
	Window            time.Duration `mapstructure:"window"`
}

// ObservabilityConfig configures logging.
type ObservabilityConfig struct {
	Logging        LoggingConfig        `mapstructure:"logging"`
	RequestLogging RequestLoggingConfig `mapstructure:"request_logging"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RequestLoggingConfig configures per-request access logging.
type RequestLoggingConfig struct {
	Enabled              bool     `mapstructure:"enabled"`
	ExcludedPathPrefixes []string `mapstructure:"excluded_path_prefixes"`
}

// DefaultConfig returns the configuration used when neither file nor
// environment provides a value.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        "stylevault",
			Environment: "development",
		},
		HTTP: HTTPConfig{
			Port:           8080,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxRequestSize: 1 << 20,
		},
		Management: ManagementConfig{
			Enabled:      true,
			Port:         9090,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			Enabled: true,
		},
		Database: DatabaseConfig{
			MongoDB: MongoDBConfig{
				URL:              "mongodb://localhost:27017",
				Database:         "stylevault",
				ConnectTimeout:   10 * time.Second,
				OperationTimeout: 30 * time.Second,
			},
		},
		Cache: CacheConfig{
			Enabled: false,
			Redis: RedisConfig{
				MaxConns:         10,
				OperationTimeout: 5 * time.Second,
			},
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerSecond: 50,
			Burst:             100,
			Backend:           RateLimitBackendMemory,
			Window:            time.Minute,
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "json",
			},
			RequestLogging: RequestLoggingConfig{
				Enabled:              true,
				ExcludedPathPrefixes: []string{"/health", "/metrics"},
			},
		},
	}
}
