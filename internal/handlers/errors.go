package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"unieats/internal/common"
	"unieats/internal/models"

	"github.com/labstack/echo/v4"
)

// sendError renders a service error. Anything that is not a domain error is
// logged and reported as a generic server error.
func sendError(c echo.Context, logger *slog.Logger, err error) error {
	appErr, ok := common.AsAppError(err)
	if !ok {
		logger.ErrorContext(c.Request().Context(), "request failed", "path", c.Path(), "error", err)
		return common.SendServerError(c, "Internal server error")
	}

	switch {
	case errors.Is(appErr.Kind, common.ErrValidation):
		field := appErr.Field
		if field == "" {
			field = "request"
		}
		return common.SendValidationError(c, field, appErr.Message)
	case errors.Is(appErr.Kind, common.ErrNotFound):
		return common.SendNotFoundError(c, appErr.Message)
	case errors.Is(appErr.Kind, common.ErrConflict):
		return common.SendConflictError(c, appErr.Message)
	case errors.Is(appErr.Kind, common.ErrForbidden):
		return common.SendForbiddenError(c, appErr.Message)
	}
	logger.ErrorContext(c.Request().Context(), "unmapped domain error", "error", err)
	return common.SendServerError(c, "Internal server error")
}

func actorFrom(c echo.Context) (models.UserRef, bool) {
	return common.GetActorFromContext(c.Request().Context())
}

// queryInt reads an optional non-negative integer query parameter.
func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, common.Validation(name, "%s must be a non-negative integer", name)
	}
	return v, nil
}

// queryID reads an optional positive id query parameter.
func queryID(c echo.Context, name string) (*int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := common.ParseID(raw, name)
	if err != nil {
		return nil, common.Validation(name, "%s", err.Error())
	}
	return &id, nil
}

func pathID(c echo.Context) (int64, error) {
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return 0, common.Validation("id", "%s", err.Error())
	}
	return id, nil
}
