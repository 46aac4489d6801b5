package httpserver

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	apperrors "github.com/pscheid92/moodpulse/internal/platform/errors"
)

const rateLimiterExpiry = 5 * time.Minute

// newRateLimiter limits API calls per client IP with a token bucket.
func newRateLimiter(ratePerSecond float64, burst int) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(
		middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(ratePerSecond),
			Burst:     burst,
			ExpiresIn: rateLimiterExpiry,
		},
	)
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		Store:   store,
		Skipper: middleware.DefaultSkipper,
		DenyHandler: func(c echo.Context, identifier string, _ error) error {
			slog.InfoContext(c.Request().Context(), "Rate limit exceeded", "client_ip", identifier, "path", c.Request().URL.Path)

			denied := apperrors.RateLimitedError("rate limit exceeded")
			c.Response().Header().Set("Retry-After", retryAfter(ratePerSecond))
			return writeJSON(c, denied.HTTPStatus(), denied.ToResponse())
		},
	})
}

// retryAfter is the whole number of seconds until one token refills.
func retryAfter(ratePerSecond float64) string {
	if ratePerSecond <= 0 {
		return "60"
	}
	seconds := int(1/ratePerSecond + 0.999)
	return fmt.Sprintf("%d", max(seconds, 1))
}
