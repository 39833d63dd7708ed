package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shipsphere/logistics-api/internal/api/metrics"
)

const MsgTooManyRequests = "Too many requests, please try again later."

// Limiter counts a request against key and reports whether it is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int, reset time.Duration, err error)
	Limit() int
}

// RateLimit throttles requests per client IP and route. Limiter failures let
// the request through.
func RateLimit(limiter Limiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Path() + ":" + c.RealIP()

			allowed, remaining, reset, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("path", c.Path()).Msg("rate limiter unavailable")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			h.Set("X-RateLimit-Reset", strconv.Itoa(int(reset.Seconds())))

			if !allowed {
				metrics.RateLimitedTotal.WithLabelValues(c.Path()).Inc()
				h.Set("Retry-After", strconv.Itoa(int(reset.Seconds())))
				return echo.NewHTTPError(http.StatusTooManyRequests, MsgTooManyRequests)
			}
			return next(c)
		}
	}
}
