package middleware

import (
	"context"
	"net/http"
	"time"

	"pay2u/internal/common"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RateLimiter counts hits per key within a window.
type RateLimiter interface {
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit allows at most limit requests per window for each user, keyed by
// scope. Anonymous callers are keyed by IP. A limit of zero disables the check,
// and limiter failures let the request through.
func RateLimit(limiter RateLimiter, scope string, limit int, window time.Duration, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limiter == nil || limit <= 0 {
				return next(c)
			}

			ctx := c.Request().Context()
			subject := c.RealIP()
			if userID, ok := common.GetUserIDFromContext(ctx); ok {
				subject = userID.String()
			}

			limited, err := limiter.IsRateLimited(ctx, scope+":"+subject, limit, window)
			if err != nil {
				logger.Warn("rate limiter unavailable", zap.String("scope", scope), zap.Error(err))
				return next(c)
			}
			if limited {
				return c.JSON(http.StatusTooManyRequests, common.CreateErrorResponse("RATE_LIMITED", "Too many requests, try again later", nil))
			}
			return next(c)
		}
	}
}
