package authz

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stylevault/stylevault/pkg/auth"
	"github.com/stylevault/stylevault/pkg/server/router"
	ginrouter "github.com/stylevault/stylevault/pkg/server/router/gin"
)

type fakeValidator struct {
	claims *auth.Claims
	err    error
}

func (f *fakeValidator) Validate(_ context.Context, _ string) (*auth.Claims, error) {
	return f.claims, f.err
}

func newAuthRouter(v auth.JWTValidator) (router.Router, *string) {
	r := ginrouter.NewRouter()
	r.Use(Authenticate(v))
	var owner string
	r.GET("/me", func(c router.Context) error {
		owner = OwnerID(c)
		return c.String(http.StatusOK, owner)
	})
	return r, &owner
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	r, _ := newAuthRouter(&fakeValidator{claims: &auth.Claims{Subject: "u1"}})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	r, _ := newAuthRouter(&fakeValidator{claims: &auth.Claims{Subject: "u1"}})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	r, _ := newAuthRouter(&fakeValidator{err: errors.New("nope")})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticate_ValidTokenExposesOwner(t *testing.T) {
	r, owner := newAuthRouter(&fakeValidator{claims: &auth.Claims{Subject: "user-7"}})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if *owner != "user-7" {
		t.Fatalf("owner = %q, want user-7", *owner)
	}
}

func TestOwnerID_Unauthenticated(t *testing.T) {
	r := ginrouter.NewRouter()
	var owner string
	r.GET("/anon", func(c router.Context) error {
		owner = OwnerID(c)
		return c.String(http.StatusOK, "ok")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anon", nil))
	if owner != "" {
		t.Fatalf("owner = %q, want empty", owner)
	}
}
