package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/massage-portal/client-portal/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Authenticate middleware
// and fails fast when it is absent, which means the route was mounted
// without authentication.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := domain.IdentityFrom(c.Request().Context())
	if !ok {
		return domain.Identity{}, domain.ErrNotAuthenticated
	}
	return id, nil
}
