package handlers

import (
	"log/slog"
	"net/http"

	"unieats/internal/common"
	"unieats/internal/models"
	"unieats/internal/services"

	"github.com/labstack/echo/v4"
)

type AdminHandlers struct {
	catalog  services.CatalogService
	activity services.ActivityLogService
	stats    services.StatsService
	logger   *slog.Logger
}

func NewAdminHandlers(catalog services.CatalogService, activity services.ActivityLogService, stats services.StatsService, logger *slog.Logger) *AdminHandlers {
	return &AdminHandlers{
		catalog:  catalog,
		activity: activity,
		stats:    stats,
		logger:   logger,
	}
}

// DeleteShop handles DELETE /admin/shops/:id
func (h *AdminHandlers) DeleteShop(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathID(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	if err := h.catalog.DeleteShop(c.Request().Context(), id, &actor); err != nil {
		return sendError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListActivityLogs handles GET /admin/activity-logs?entityType=&entityId=&userId=&limit=&offset=
func (h *AdminHandlers) ListActivityLogs(c echo.Context) error {
	filters := &models.ActivityLogFilters{}
	if entityType := c.QueryParam("entityType"); entityType != "" {
		filters.EntityType = &entityType
	}

	var err error
	if filters.EntityID, err = queryID(c, "entityId"); err != nil {
		return sendError(c, h.logger, err)
	}
	if filters.UserID, err = queryID(c, "userId"); err != nil {
		return sendError(c, h.logger, err)
	}
	if filters.Limit, err = queryInt(c, "limit"); err != nil {
		return sendError(c, h.logger, err)
	}
	if filters.Offset, err = queryInt(c, "offset"); err != nil {
		return sendError(c, h.logger, err)
	}

	logs, err := h.activity.List(c.Request().Context(), filters)
	if err != nil {
		return sendError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, logs)
}

// ReconcileStats handles POST /admin/stats/reconcile
func (h *AdminHandlers) ReconcileStats(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	result, err := h.stats.Reconcile(c.Request().Context(), &actor)
	if err != nil {
		return sendError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, result)
}
