package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shipsphere/logistics-api/internal/api/handler"
	"github.com/shipsphere/logistics-api/internal/core/domain"
)

const (
	msgRouteNotFound = "Route not found"
	msgInternal      = "Internal server error"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes and messages.
//   - Logs unexpected errors and, when verbose is false, hides their text.
//   - Renders the standard envelope with success=false.
func NewHTTPErrorHandler(log zerolog.Logger, verbose bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, fields := resolveError(err, log, c, verbose)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = handler.Fail(c, code, msg, fields)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context, verbose bool) (int, string, []domain.FieldError) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, "Validation errors", ve.Fields
	}

	// Echo's own errors (router misses, auth gate, rate limiter, body limit).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if (he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed) &&
			he.Message == http.StatusText(he.Code) {
			return http.StatusNotFound, msgRouteNotFound, nil
		}
		return he.Code, fmt.Sprintf("%v", he.Message), nil
	}

	switch {
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, "User already exists with this email", nil
	case errors.Is(err, domain.ErrCityUnavailable):
		return http.StatusBadRequest, "Selected city is not available", nil
	case errors.Is(err, domain.ErrCityExists):
		return http.StatusBadRequest, "City with this name already exists", nil
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, "Valid role (ADMIN or USER) is required", nil
	case errors.Is(err, domain.ErrSelfDemotion):
		return http.StatusBadRequest, "You cannot demote yourself", nil
	case errors.Is(err, domain.ErrSelfDeletion):
		return http.StatusBadRequest, "You cannot delete yourself", nil
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password", nil
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid token.", nil
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Access denied. Admin privileges required.", nil
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found", nil
	case errors.Is(err, domain.ErrCityNotFound):
		return http.StatusNotFound, "City not found", nil
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	if verbose {
		return http.StatusInternalServerError, err.Error(), nil
	}
	return http.StatusInternalServerError, msgInternal, nil
}
