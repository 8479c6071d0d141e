package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Loader defines the interface for loading configuration
type Loader interface {
	Load() (*Config, error)
	Validate(*Config) error
}

// ViperLoader implements Loader using Viper for configuration management
type ViperLoader struct {
	configFile string
	envPrefix  string
}

// NewViperLoader creates a new ViperLoader
// configFile: path to configuration file (optional, can be empty)
// envPrefix: prefix for environment variables (e.g., "STYLEVAULT")
func NewViperLoader(configFile, envPrefix string) *ViperLoader {
	return &ViperLoader{
		configFile: configFile,
		envPrefix:  envPrefix,
	}
}

// Load loads configuration with precedence: ENV > file > defaults
func (l *ViperLoader) Load() (*Config, error) {
	v := viper.New()

	l.setDefaults(v, DefaultConfig())

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", l.configFile, err)
		}
	}

	v.SetEnvPrefix(l.envPrefix)
	l.bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// bindEnvVars explicitly binds environment variables for nested structs
func (l *ViperLoader) bindEnvVars(v *viper.Viper) {
	// Service
	v.BindEnv("service.name", l.prefixedEnv("SERVICE_NAME"))
	v.BindEnv("service.environment", l.prefixedEnv("SERVICE_ENVIRONMENT"), l.prefixedEnv("ENVIRONMENT"))

	// HTTP
	v.BindEnv("http.port", l.prefixedEnv("HTTP_PORT"))
	v.BindEnv("http.read_timeout", l.prefixedEnv("HTTP_READ_TIMEOUT"))
	v.BindEnv("http.write_timeout", l.prefixedEnv("HTTP_WRITE_TIMEOUT"))
	v.BindEnv("http.idle_timeout", l.prefixedEnv("HTTP_IDLE_TIMEOUT"))
	v.BindEnv("http.max_request_size", l.prefixedEnv("HTTP_MAX_REQUEST_SIZE"))

	// Management
	v.BindEnv("management.enabled", l.prefixedEnv("MGMT_ENABLED"))
	v.BindEnv("management.port", l.prefixedEnv("MGMT_PORT"))
	v.BindEnv("management.read_timeout", l.prefixedEnv("MGMT_READ_TIMEOUT"))
	v.BindEnv("management.write_timeout", l.prefixedEnv("MGMT_WRITE_TIMEOUT"))

	// Auth
	v.BindEnv("auth.enabled", l.prefixedEnv("AUTH_ENABLED"))
	v.BindEnv("auth.secret", l.prefixedEnv("AUTH_SECRET"))
	v.BindEnv("auth.issuer", l.prefixedEnv("AUTH_ISSUER"))
	v.BindEnv("auth.audience", l.prefixedEnv("AUTH_AUDIENCE"))

	// Database
	v.BindEnv("database.mongodb.url", l.prefixedEnv("MONGODB_URL"))
	v.BindEnv("database.mongodb.database", l.prefixedEnv("MONGODB_DATABASE"))
	v.BindEnv("database.mongodb.connect_timeout", l.prefixedEnv("MONGODB_CONNECT_TIMEOUT"))
	v.BindEnv("database.mongodb.operation_timeout", l.prefixedEnv("MONGODB_OPERATION_TIMEOUT"))

	// Cache
	v.BindEnv("cache.enabled", l.prefixedEnv("CACHE_ENABLED"))
	v.BindEnv("cache.redis.url", l.prefixedEnv("REDIS_URL"))
	v.BindEnv("cache.redis.max_conns", l.prefixedEnv("REDIS_MAX_CONNS"))
	v.BindEnv("cache.redis.operation_timeout", l.prefixedEnv("REDIS_OPERATION_TIMEOUT"))

	// Rate limiting
	v.BindEnv("rate_limit.enabled", l.prefixedEnv("RATE_LIMIT_ENABLED"))
	v.BindEnv("rate_limit.requests_per_second", l.prefixedEnv("RATE_LIMIT_RPS"))
	v.BindEnv("rate_limit.burst", l.prefixedEnv("RATE_LIMIT_BURST"))
	v.BindEnv("rate_limit.backend", l.prefixedEnv("RATE_LIMIT_BACKEND"))
	v.BindEnv("rate_limit.window", l.prefixedEnv("RATE_LIMIT_WINDOW"))

	// Observability
	v.BindEnv("observability.logging.level", l.prefixedEnv("LOG_LEVEL"))
	v.BindEnv("observability.logging.format", l.prefixedEnv("LOG_FORMAT"))
	v.BindEnv("observability.request_logging.enabled", l.prefixedEnv("REQUEST_LOGGING_ENABLED"))
	v.BindEnv("observability.request_logging.excluded_path_prefixes", l.prefixedEnv("REQUEST_LOGGING_EXCLUDED_PATH_PREFIXES"))
}

func (l *ViperLoader) prefixedEnv(suffix string) string {
	prefix := strings.TrimSpace(l.envPrefix)
	if prefix == "" {
		prefix = "APP"
	}
	return fmt.Sprintf("%s_%s", strings.ToUpper(prefix), suffix)
}

// setDefaults sets default values in Viper from the default config
func (l *ViperLoader) setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("service.name", cfg.Service.Name)
	v.SetDefault("service.environment", cfg.Service.Environment)

	v.SetDefault("http.port", cfg.HTTP.Port)
	v.SetDefault("http.read_timeout", cfg.HTTP.ReadTimeout)
	v.SetDefault("http.write_timeout", cfg.HTTP.WriteTimeout)
	v.SetDefault("http.idle_timeout", cfg.HTTP.IdleTimeout)
	v.SetDefault("http.max_request_size", cfg.HTTP.MaxRequestSize)

	v.SetDefault("management.enabled", cfg.Management.Enabled)
	v.SetDefault("management.port", cfg.Management.Port)
	v.SetDefault("management.read_timeout", cfg.Management.ReadTimeout)
	v.SetDefault("management.write_timeout", cfg.Management.WriteTimeout)

	v.SetDefault("auth.enabled", cfg.Auth.Enabled)
	v.SetDefault("auth.secret", cfg.Auth.Secret)
	v.SetDefault("auth.issuer", cfg.Auth.Issuer)
	v.SetDefault("auth.audience", cfg.Auth.Audience)

	v.SetDefault("database.mongodb.url", cfg.Database.MongoDB.URL)
	v.SetDefault("database.mongodb.database", cfg.Database.MongoDB.Database)
	v.SetDefault("database.mongodb.connect_timeout", cfg.Database.MongoDB.ConnectTimeout)
	v.SetDefault("database.mongodb.operation_timeout", cfg.Database.MongoDB.OperationTimeout)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.redis.url", cfg.Cache.Redis.URL)
	v.SetDefault("cache.redis.max_conns", cfg.Cache.Redis.MaxConns)
	v.SetDefault("cache.redis.operation_timeout", cfg.Cache.Redis.OperationTimeout)

	v.SetDefault("rate_limit.enabled", cfg.RateLimit.Enabled)
	v.SetDefault("rate_limit.requests_per_second", cfg.RateLimit.RequestsPerSecond)
	v.SetDefault("rate_limit.burst", cfg.RateLimit.Burst)
	v.SetDefault("rate_limit.backend", cfg.RateLimit.Backend)
	v.SetDefault("rate_limit.window", cfg.RateLimit.Window)

	v.SetDefault("observability.logging.level", cfg.Observability.Logging.Level)
	v.SetDefault("observability.logging.format", cfg.Observability.Logging.Format)
	v.SetDefault("observability.request_logging.enabled", cfg.Observability.RequestLogging.Enabled)
	v.SetDefault("observability.request_logging.excluded_path_prefixes", cfg.Observability.RequestLogging.ExcludedPathPrefixes)
}

// Validate checks the configuration and returns every problem found.
func (l *ViperLoader) Validate(cfg *Config) error {
	var errs []error

	if strings.TrimSpace(cfg.Service.Name) == "" {
		errs = append(errs, errors.New("service.name is required"))
	}

	if cfg.HTTP.Port < 1 || cfg.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port must be between 1 and 65535, got %d", cfg.HTTP.Port))
	}
	if cfg.Management.Enabled {
		if cfg.Management.Port < 1 || cfg.Management.Port > 65535 {
			errs = append(errs, fmt.Errorf("management.port must be between 1 and 65535, got %d", cfg.Management.Port))
		}
		if cfg.Management.Port == cfg.HTTP.Port {
			errs = append(errs, errors.New("management.port must differ from http.port"))
		}
	}

	if cfg.Auth.Enabled {
		if cfg.Auth.Secret == "" {
			errs = append(errs, errors.New("auth.secret is required when auth is enabled"))
		}
		if cfg.Auth.Issuer == "" {
			errs = append(errs, errors.New("auth.issuer is required when auth is enabled"))
		}
		if cfg.Auth.Audience == "" {
			errs = append(errs, errors.New("auth.audience is required when auth is enabled"))
		}
	}

	if cfg.Database.MongoDB.URL == "" {
		errs = append(errs, errors.New("database.mongodb.url is required"))
	}
	if cfg.Database.MongoDB.Database == "" {
		errs = append(errs, errors.New("database.mongodb.database is required"))
	}

	if cfg.Cache.Enabled && cfg.Cache.Redis.URL == "" {
		errs = append(errs, errors.New("cache.redis.url is required when cache is enabled"))
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RequestsPerSecond <= 0 {
			errs = append(errs, errors.New("rate_limit.requests_per_second must be greater than 0"))
		}
		if cfg.RateLimit.Burst <= 0 {
			errs = append(errs, errors.New("rate_limit.burst must be greater than 0"))
		}
		backend := strings.ToLower(cfg.RateLimit.Backend)
		switch backend {
		case RateLimitBackendMemory:
		case RateLimitBackendRedis:
			if !cfg.Cache.Enabled {
				errs = append(errs, errors.New("rate_limit.backend=redis requires cache.enabled=true"))
			}
			if cfg.RateLimit.Window <= 0 {
				errs = append(errs, errors.New("rate_limit.window must be greater than 0 for the redis backend"))
			}
		default:
			errs = append(errs, fmt.Errorf("rate_limit.backend must be %q or %q, got %q",
				RateLimitBackendMemory, RateLimitBackendRedis, cfg.RateLimit.Backend))
		}
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, strings.ToLower(cfg.Observability.Logging.Level)) {
		errs = append(errs, fmt.Errorf("observability.logging.level must be one of %v, got %q",
			validLevels, cfg.Observability.Logging.Level))
	}
	validFormats := []string{"json", "text"}
	if !contains(validFormats, strings.ToLower(cfg.Observability.Logging.Format)) {
		errs = append(errs, fmt.Errorf("observability.logging.format must be one of %v, got %q",
			validFormats, cfg.Observability.Logging.Format))
	}

	return errors.Join(errs...)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
