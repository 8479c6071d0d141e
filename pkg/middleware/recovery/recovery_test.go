package recovery

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stylevault/stylevault/pkg/observability/logger"
	"github.com/stylevault/stylevault/pkg/server/router"
	ginrouter "github.com/stylevault/stylevault/pkg/server/router/gin"
)

func TestRecovery_PanicBecomes500(t *testing.T) {
	r := ginrouter.NewRouter()
	r.Use(Recovery(logger.NewNop()))
	r.GET("/boom", func(c router.Context) error {
		panic("kaboom")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "internal_server_error") {
		t.Fatalf("body = %q, want error payload", rec.Body.String())
	}
}

func TestRecovery_PassesThroughNormally(t *testing.T) {
	r := ginrouter.NewRouter()
	r.Use(Recovery(logger.NewNop()))
	r.GET("/ok", func(c router.Context) error {
		return c.String(http.StatusOK, "fine")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "fine" {
		t.Fatalf("got %d %q, want 200 fine", rec.Code, rec.Body.String())
	}
}
