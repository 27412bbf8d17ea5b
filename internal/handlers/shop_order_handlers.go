package handlers

import (
	"log/slog"
	"net/http"

	"unieats/internal/common"
	"unieats/internal/models"
	"unieats/internal/services"

	"github.com/labstack/echo/v4"
)

// ShopOrderHandlers serves the shop's order queue and revenue views. The
// authenticated user id is the shop id.
type ShopOrderHandlers struct {
	orders     services.OrderService
	revenue    services.RevenueService
	statements services.StatementService
	logger     *slog.Logger
}

func NewShopOrderHandlers(orders services.OrderService, revenue services.RevenueService, statements services.StatementService, logger *slog.Logger) *ShopOrderHandlers {
	return &ShopOrderHandlers{
		orders:     orders,
		revenue:    revenue,
		statements: statements,
		logger:     logger,
	}
}

// ListOrders handles GET /shop/orders?status=&limit=&offset=
func (h *ShopOrderHandlers) ListOrders(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var filter models.OrderFilter
	if raw := c.QueryParam("status"); raw != "" {
		status, err := models.ParseOrderStatus(raw)
		if err != nil {
			return common.SendValidationError(c, "status", err.Error())
		}
		filter.Status = &status
	}
	var err error
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		return sendError(c, h.logger, err)
	}
	if filter.Offset, err = queryInt(c, "offset"); err != nil {
		return sendError(c, h.logger, err)
	}

	orders, err := h.orders.ListShopOrders(c.Request().Context(), actor.ID, filter)
	if err != nil {
		return sendError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /shop/orders/:id
func (h *ShopOrderHandlers) GetOrder(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathID(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	order, err := h.orders.GetOrder(c.Request().Context(), id, actor)
	if err != nil {
		return sendError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, order)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /shop/orders/:id/status
func (h *ShopOrderHandlers) UpdateStatus(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathID(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		return common.SendValidationError(c, "status", err.Error())
	}

	order, err := h.orders.UpdateStatus(c.Request().Context(), id, status, actor)
	if err != nil {
		return sendError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, order)
}

type updatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

// UpdatePaymentStatus handles PUT /shop/orders/:id/payment-status
func (h *ShopOrderHandlers) UpdatePaymentStatus(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathID(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	var req updatePaymentStatusRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	status, err := models.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		return common.SendValidationError(c, "paymentStatus", err.Error())
	}

	order, err := h.orders.UpdatePaymentStatus(c.Request().Context(), id, status, actor)
	if err != nil {
		return sendError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, order)
}

// Revenue handles GET /shop/revenue
func (h *ShopOrderHandlers) Revenue(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	report, err := h.revenue.Report(c.Request().Context(), actor.ID)
	if err != nil {
		return sendError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, report)
}

// Dashboard handles GET /shop/dashboard
func (h *ShopOrderHandlers) Dashboard(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	stats, err := h.revenue.Dashboard(c.Request().Context(), actor.ID)
	if err != nil {
		return sendError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// StatementURL handles GET /shop/revenue/statements/:month
func (h *ShopOrderHandlers) StatementURL(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	url, err := h.statements.PresignedURL(c.Request().Context(), actor.ID, c.Param("month"))
	if err != nil {
		return sendError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
