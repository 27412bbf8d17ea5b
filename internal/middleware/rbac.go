package middleware

import (
	"net/http"
	"slices"

	"unieats/internal/common"
	"unieats/internal/models"

	"github.com/labstack/echo/v4"
)

// RequireRole admits only authenticated users holding one of roles.
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if _, ok := common.GetUserIDFromContext(ctx); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}
			role, ok := common.GetRoleFromContext(ctx)
			if !ok || !slices.Contains(roles, role) {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}
			return next(c)
		}
	}
}
