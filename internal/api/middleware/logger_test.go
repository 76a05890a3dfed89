package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestRequestLogger_WritesOneLinePerRequest(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(zerolog.New(&buf)))
	e.GET("/users/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "User not found.")
	})

	req := httptest.NewRequest(http.MethodGet, "/users/acc-1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("expected a single JSON log line, got %q: %v", buf.String(), err)
	}
	if line["method"] != http.MethodGet || line["path"] != "/users/acc-1" {
		t.Errorf("unexpected log fields: %v", line)
	}
	if line["status"] != float64(http.StatusNotFound) {
		t.Errorf("expected status 404 in log, got %v", line["status"])
	}
	if line["level"] != "warn" {
		t.Errorf("expected warn level for a 4xx, got %v", line["level"])
	}
}
