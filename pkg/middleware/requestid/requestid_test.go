package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	ginrouter "github.com/stylevault/stylevault/pkg/server/router/gin"

	"github.com/stylevault/stylevault/pkg/server/router"
)

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	r := ginrouter.NewRouter()
	r.Use(RequestID())

	var seen string
	r.GET("/ping", func(c router.Context) error {
		seen = GetRequestID(c.Request().Context())
		return c.String(http.StatusOK, "ok")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if seen == "" {
		t.Fatal("expected request id in context")
	}
	if got := rec.Header().Get(RequestIDHeader); got != seen {
		t.Fatalf("response header = %q, context = %q", got, seen)
	}
}

func TestRequestID_PreservesIncomingHeader(t *testing.T) {
	r := ginrouter.NewRouter()
	r.Use(RequestID())
	r.GET("/ping", func(c router.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "client-supplied-id")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "client-supplied-id" {
		t.Fatalf("request id = %q, want client-supplied-id", got)
	}
}

func TestGetRequestID_NilContext(t *testing.T) {
	if got := GetRequestID(nil); got != "" {
		t.Fatalf("GetRequestID(nil) = %q, want empty", got)
	}
}
