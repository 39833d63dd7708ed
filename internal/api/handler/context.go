package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shipsphere/logistics-api/internal/api/middleware"
	"github.com/shipsphere/logistics-api/internal/core/domain"
)

// actor returns the identity attached by the Auth middleware. A missing
// identity means the route was wired without Auth and is rejected as 401.
func actor(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c.Request().Context())
	if !ok || id.UserID == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, middleware.MsgAuthRequired)
	}
	return id, nil
}

// bindAndValidate decodes the request into req and runs the registered
// validator over it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return bindError(req, err)
	}
	return c.Validate(req)
}
