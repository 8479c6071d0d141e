package redis

import (
	"testing"

	"github.com/stylevault/stylevault/pkg/observability/logger"
)

func TestNewRedisAdapter_RequiresURL(t *testing.T) {
	if _, err := NewRedisAdapter(Config{}, logger.NewNop()); err == nil {
		t.Fatal("expected error for missing URL")
	}
}

func TestNewRedisAdapter_RejectsInvalidURL(t *testing.T) {
	if _, err := NewRedisAdapter(Config{URL: "://not-a-url"}, logger.NewNop()); err == nil {
		t.Fatal("expected error for invalid URL")
	}
}
