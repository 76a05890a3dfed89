package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RBAC enforces role-based access control.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := roleSet(allowedRoles)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// OwnerOrRole lets the request through when the path parameter param names
// the authenticated account, or when the caller holds one of allowedRoles.
func OwnerOrRole(param string, allowedRoles ...string) echo.MiddlewareFunc {
	allowed := roleSet(allowedRoles)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, _ := c.Get("account_id").(string)
			role, _ := c.Get("role").(string)
			if id != "" && id == c.Param(param) {
				return next(c)
			}
			if _, ok := allowed[role]; ok {
				return next(c)
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}

func roleSet(roles []string) map[string]struct{} {
	set := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}
