// Package middleware provides HTTP middleware for Aster.
package middleware

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	astercontext "github.com/Ramsey-B/aster/pkg/context"
	"github.com/labstack/echo/v4"
)

// RoleAdmin is the role required to trigger imports.
const RoleAdmin = "admin"

// RequireAdmin rejects requests whose caller does not carry the admin role.
// The role is resolved upstream (gateway JWT claims or the Context middleware
// headers when AUTH_ENABLED=false) and placed on the request context.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if astercontext.GetUserRole(ctx) != RoleAdmin {
				return httperror.NewHTTPError(http.StatusForbidden, "administrative privilege required")
			}
			return next(c)
		}
	}
}
