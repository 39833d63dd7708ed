package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shipsphere/logistics-api/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgAuthRequired)
			}
			if _, ok := allowed[id.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, MsgAdminRequired)
			}
			return next(c)
		}
	}
}

// RequireAdmin admits ADMIN callers only.
func RequireAdmin() echo.MiddlewareFunc {
	return RBAC(domain.RoleAdmin)
}
