package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"unieats/internal/caching"
	"unieats/internal/common"

	"github.com/labstack/echo/v4"
)

// RateLimit caps requests per authenticated user within window. Cache
// failures let the request through.
func RateLimit(cache caching.CacheService, scope string, limit int, window time.Duration, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			userID, ok := common.GetUserIDFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}

			limited, err := cache.IsRateLimited(ctx, fmt.Sprintf("%s:%d", scope, userID), limit, window)
			if err != nil {
				logger.WarnContext(ctx, "rate limit check failed", "scope", scope, "user_id", userID, "error", err)
				return next(c)
			}
			if limited {
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				return common.SendTooManyRequestsError(c)
			}
			return next(c)
		}
	}
}
