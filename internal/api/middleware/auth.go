package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shipsphere/logistics-api/internal/core/domain"
	"github.com/shipsphere/logistics-api/internal/core/ports"
)

const (
	MsgNoToken       = "Access denied. No token provided."
	MsgInvalidToken  = "Invalid token."
	MsgAuthRequired  = "Authentication required."
	MsgAdminRequired = "Access denied. Admin privileges required."
)

const bearerPrefix = "Bearer "

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying the verified caller.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the caller attached by Auth, if any.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(domain.Identity)
	return id, ok
}

// Auth requires a valid bearer token and attaches the caller's identity to
// the request context. The token is not re-checked against the store, so a
// deleted or demoted user keeps access until the token expires.
func Auth(tokens ports.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgNoToken)
			}

			id, err := tokens.Verify(strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidToken)
			}

			req := c.Request()
			c.SetRequest(req.WithContext(WithIdentity(req.Context(), id)))
			return next(c)
		}
	}
}
