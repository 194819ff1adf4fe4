package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/massage-portal/client-portal/internal/api/metrics"
	"github.com/massage-portal/client-portal/internal/core/domain"
	"github.com/massage-portal/client-portal/internal/core/ports"
)

// IdentityKey is the echo context key holding the caller's domain.Identity.
const IdentityKey = "identity"

// Authenticate resolves the bearer token through authn, which reloads the
// account on every request, and injects the identity into both the echo
// context and the request context.
func Authenticate(authn ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return reject("missing", domain.ErrNotAuthenticated)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return reject("malformed", domain.ErrNotAuthenticated)
			}

			id, err := authn.Authenticate(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				return reject(rejectionReason(err), err)
			}

			c.Set(IdentityKey, id)
			c.SetRequest(c.Request().WithContext(domain.WithIdentity(c.Request().Context(), id)))

			return next(c)
		}
	}
}

func reject(reason string, err error) error {
	metrics.AuthTokenRejectionsTotal.WithLabelValues(reason).Inc()
	return err
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrAccountInactive):
		return "inactive"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid"
	default:
		return "error"
	}
}
