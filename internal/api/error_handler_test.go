package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tbp-ucsd/membership-api/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", domain.ErrUnsafeRole, http.StatusUnprocessableEntity, domain.ErrUnsafeRole.Error()},
		{"not found", domain.ErrRoleNotFound, http.StatusNotFound, "role not found"},
		{"conflict", domain.ErrEmailTaken, http.StatusConflict, domain.ErrEmailTaken.Error()},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "The email and password entered don't match."},
		{"not verified", domain.ErrAccountNotVerified, http.StatusUnauthorized, "Your account hasn't been verified. Check your email for a verification code."},
		{"forbidden", domain.ErrRoleChangeDenied, http.StatusForbidden, domain.ErrRoleChangeDenied.Error()},
		{"throttled", domain.ErrLoginThrottled, http.StatusTooManyRequests, domain.ErrLoginThrottled.Error()},
		{"operational", domain.Operational("find account", errors.New("connection reset")), http.StatusInternalServerError, "internal server error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid request body"), http.StatusBadRequest, "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tt.wantMsg {
				t.Errorf("message = %q, want %q", body.Error, tt.wantMsg)
			}
		})
	}
}

func TestHTTPErrorHandler_Head(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodHead, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrAccountNotFound, c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}
