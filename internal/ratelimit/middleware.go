package ratelimit

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// KeyFunc derives the rate-limit key for a request.
type KeyFunc func(c echo.Context) string

// Middleware enforces the named limit before the handler runs. On deny it
// fails with 429 and the standard error body (rendered by the server's
// error handler).
func Middleware(limiter Limiter, name string, limit Limit, keyFn KeyFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limiter == nil || limit.Count <= 0 {
				return next(c)
			}
			key := keyFn(c)
			if key == "" {
				key = IPKey(c)
			}
			decision := limiter.Allow(c.Request().Context(), name, key, limit)
			applyHeaders(c, limit, decision)
			if !decision.Allowed {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
			}
			return next(c)
		}
	}
}

func applyHeaders(c echo.Context, limit Limit, d Decision) {
	h := c.Response().Header()
	h.Set("X-RateLimit-Limit", fmt.Sprint(limit.Count))
	remaining := limit.Count - d.Count
	if remaining < 0 {
		remaining = 0
	}
	h.Set("X-RateLimit-Remaining", fmt.Sprint(remaining))
	if !d.WindowEnd.IsZero() {
		h.Set("X-RateLimit-Reset", fmt.Sprint(d.WindowEnd.Unix()))
		if !d.Allowed {
			retry := time.Until(d.WindowEnd)
			if retry < 0 {
				retry = 0
			}
			h.Set("Retry-After", fmt.Sprint(int(retry.Seconds())+1))
		}
	}
}
