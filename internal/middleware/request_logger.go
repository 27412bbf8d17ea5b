package middleware

import (
	"log/slog"
	"time"

	"unieats/internal/common"

	"github.com/labstack/echo/v4"
)

// RequestLogger writes one structured line per request. Server errors are
// logged at error level with the underlying cause.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			ctx := req.Context()
			status := c.Response().Status
			attrs := []any{
				"method", req.Method,
				"path", c.Path(),
				"status", status,
				"latency_ms", time.Since(start).Milliseconds(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			}
			if actor, ok := common.GetActorFromContext(ctx); ok {
				attrs = append(attrs, "user_id", actor.ID, "role", actor.Role)
			}

			switch {
			case status >= 500:
				if err != nil {
					attrs = append(attrs, "error", err)
				}
				logger.ErrorContext(ctx, "request failed", attrs...)
			case status >= 400:
				logger.WarnContext(ctx, "request rejected", attrs...)
			default:
				logger.InfoContext(ctx, "request handled", attrs...)
			}
			return nil
		}
	}
}
