package controller

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stylevault/stylevault/pkg/middleware"
)

func TestMapError_UnknownErrorIs500(t *testing.T) {
	status, resp := MapError(context.Background(), errors.New("boom"))
	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", status)
	}
	if resp.Error != "internal_server_error" {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestMapError_AppErrorStatusAndCategory(t *testing.T) {
	cases := []struct {
		err        *AppError
		wantStatus int
		wantError  string
	}{
		{NewValidationError("bad field", nil), http.StatusBadRequest, "validation_error"},
		{NewNotFoundError("no record"), http.StatusNotFound, "not_found"},
		{NewUnauthorizedError("no token"), http.StatusUnauthorized, "unauthorized"},
		{NewUnavailableError("store down", errors.New("dial tcp")), http.StatusServiceUnavailable, "unavailable"},
		{NewInternalError("broken", nil), http.StatusInternalServerError, "internal_server_error"},
	}

	for _, c := range cases {
		status, resp := MapError(context.Background(), c.err)
		if status != c.wantStatus {
			t.Fatalf("%s: status = %d, want %d", c.err.Code, status, c.wantStatus)
		}
		if resp.Error != c.wantError {
			t.Fatalf("%s: error = %q, want %q", c.err.Code, resp.Error, c.wantError)
		}
		if resp.Message != c.err.Message {
			t.Fatalf("%s: message = %q, want %q", c.err.Code, resp.Message, c.err.Message)
		}
	}
}

func TestMapError_InfersStatusFromCode(t *testing.T) {
	err := &AppError{Code: "resource.not_found", Message: "gone"}
	status, _ := MapError(context.Background(), err)
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
}

func TestMapError_CarriesRequestID(t *testing.T) {
	// The requestid middleware stores the ID under its typed key.
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	_, resp := MapError(ctx, NewNotFoundError("x"))
	if resp.RequestID != "req-1" {
		t.Fatalf("request id = %q, want req-1", resp.RequestID)
	}

	_, resp = MapError(context.Background(), NewNotFoundError("x"))
	if resp.RequestID != "" {
		t.Fatalf("request id = %q, want empty without middleware", resp.RequestID)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("inner")
	err := NewInternalError("outer", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to reach the cause")
	}
}
