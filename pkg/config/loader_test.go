package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestViperLoader_Defaults(t *testing.T) {
	t.Setenv("STYLEVAULT_AUTH_SECRET", "secret")
	t.Setenv("STYLEVAULT_AUTH_ISSUER", "stylevault")
	t.Setenv("STYLEVAULT_AUTH_AUDIENCE", "stylevault-api")

	cfg, err := NewViperLoader("", "STYLEVAULT").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Service.Name != "stylevault" {
		t.Fatalf("service.name = %q", cfg.Service.Name)
	}
	if cfg.HTTP.Port != 8080 || cfg.Management.Port != 9090 {
		t.Fatalf("ports = %d/%d", cfg.HTTP.Port, cfg.Management.Port)
	}
	if cfg.Database.MongoDB.OperationTimeout != 30*time.Second {
		t.Fatalf("operation timeout = %v", cfg.Database.MongoDB.OperationTimeout)
	}
	if cfg.RateLimit.Backend != RateLimitBackendMemory {
		t.Fatalf("rate limit backend = %q", cfg.RateLimit.Backend)
	}
}

func TestViperLoader_DefaultsFailAuthValidation(t *testing.T) {
	// Auth is on by default, so a config without credentials must fail closed.
	loader := NewViperLoader("", "STYLEVAULT")
	err := loader.Validate(DefaultConfig())
	if err == nil {
		t.Fatal("expected validation error for enabled auth without credentials")
	}
	for _, want := range []string{"auth.secret", "auth.issuer", "auth.audience"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
}

func TestViperLoader_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	content := `
service:
  name: from-file
http:
  port: 8181
auth:
  enabled: false
`
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("STYLEVAULT_HTTP_PORT", "8282")
	t.Setenv("STYLEVAULT_MONGODB_DATABASE", "stylevault_test")

	cfg, err := NewViperLoader(file, "STYLEVAULT").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Service.Name != "from-file" {
		t.Fatalf("service.name = %q, want file value", cfg.Service.Name)
	}
	if cfg.HTTP.Port != 8282 {
		t.Fatalf("http.port = %d, want env value", cfg.HTTP.Port)
	}
	if cfg.Database.MongoDB.Database != "stylevault_test" {
		t.Fatalf("database = %q", cfg.Database.MongoDB.Database)
	}
}

func TestViperLoader_Validate(t *testing.T) {
	loader := NewViperLoader("", "STYLEVAULT")

	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Auth.Secret = "secret"
		cfg.Auth.Issuer = "stylevault"
		cfg.Auth.Audience = "stylevault-api"
		return cfg
	}

	if err := loader.Validate(valid()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty service name", func(c *Config) { c.Service.Name = " " }, "service.name"},
		{"bad http port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"port clash", func(c *Config) { c.Management.Port = c.HTTP.Port }, "management.port"},
		{"missing mongo url", func(c *Config) { c.Database.MongoDB.URL = "" }, "database.mongodb.url"},
		{"missing mongo database", func(c *Config) { c.Database.MongoDB.Database = "" }, "database.mongodb.database"},
		{"cache without url", func(c *Config) { c.Cache.Enabled = true }, "cache.redis.url"},
		{"bad rate limit backend", func(c *Config) {
			c.RateLimit.Enabled = true
			c.RateLimit.Backend = "carrier-pigeon"
		}, "rate_limit.backend"},
		{"redis backend without cache", func(c *Config) {
			c.RateLimit.Enabled = true
			c.RateLimit.Backend = RateLimitBackendRedis
		}, "cache.enabled"},
		{"bad log level", func(c *Config) { c.Observability.Logging.Level = "verbose" }, "observability.logging.level"},
		{"bad log format", func(c *Config) { c.Observability.Logging.Format = "xml" }, "observability.logging.format"},
	}

	for _, c := range cases {
		cfg := valid()
		c.mutate(cfg)
		err := loader.Validate(cfg)
		if err == nil {
			t.Fatalf("%s: expected validation error", c.name)
		}
		if !strings.Contains(err.Error(), c.want) {
			t.Fatalf("%s: error %q does not mention %s", c.name, err, c.want)
		}
	}
}

func TestViperLoader_AggregatesErrors(t *testing.T) {
	loader := NewViperLoader("", "STYLEVAULT")
	cfg := DefaultConfig()
	cfg.Service.Name = ""
	cfg.HTTP.Port = -1
	cfg.Database.MongoDB.URL = ""
	cfg.Auth.Enabled = false

	err := loader.Validate(cfg)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"service.name", "http.port", "database.mongodb.url"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
}
