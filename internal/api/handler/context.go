package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tbp-ucsd/membership-api/internal/core/ports"
)

// ctxActor extracts the caller injected by the Auth middleware and fails
// fast before any service call when either claim is missing.
func ctxActor(c echo.Context) (ports.Actor, error) {
	id, _ := c.Get("account_id").(string)
	role, _ := c.Get("role").(string)
	if id == "" || role == "" {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return ports.Actor{AccountID: id, Role: role}, nil
}
