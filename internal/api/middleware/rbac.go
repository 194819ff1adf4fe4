package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/massage-portal/client-portal/internal/core/domain"
)

// RequireRoles enforces role-based access control. It must run after
// Authenticate.
func RequireRoles(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, _ := domain.IdentityFrom(c.Request().Context())
			if err := domain.Authorize(id, allowedRoles...); err != nil {
				return err
			}
			return next(c)
		}
	}
}
