package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"unieats/internal/caching"
	"unieats/internal/common"
	"unieats/internal/services"

	"github.com/cespare/xxhash/v2"
	"github.com/labstack/echo/v4"
)

const (
	idempotencyHeader    = "Idempotency-Key"
	idempotencyPending   = "pending"
	maxIdempotencyKeyLen = 255
)

// CustomerOrderHandlers serves the customer's checkout and order history.
type CustomerOrderHandlers struct {
	checkout       services.CheckoutService
	orders         services.OrderService
	cache          caching.CacheService
	idempotencyTTL time.Duration
	logger         *slog.Logger
}

func NewCustomerOrderHandlers(checkout services.CheckoutService, orders services.OrderService, cache caching.CacheService, idempotencyTTL time.Duration, logger *slog.Logger) *CustomerOrderHandlers {
	return &CustomerOrderHandlers{
		checkout:       checkout,
		orders:         orders,
		cache:          cache,
		idempotencyTTL: idempotencyTTL,
		logger:         logger,
	}
}

// Checkout handles POST /customer/orders/checkout. A repeated Idempotency-Key
// with the same cart returns the order created by the first request instead
// of a new one; the same key with a different cart is a conflict.
func (h *CustomerOrderHandlers) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	actor, ok := actorFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	key := c.Request().Header.Get(idempotencyHeader)
	if len(key) > maxIdempotencyKeyLen {
		return common.SendValidationError(c, idempotencyHeader, "Idempotency-Key cannot exceed 255 characters")
	}

	var cacheKey, fingerprint string
	if key != "" {
		cacheKey = caching.Key("idempotency", actor.ID, key)
		fingerprint = requestFingerprint(&req)
		claimed, err := h.cache.SetIfAbsent(ctx, cacheKey, idempotencyValue(idempotencyPending, fingerprint), h.idempotencyTTL)
		switch {
		case err != nil:
			h.logger.WarnContext(ctx, "idempotency claim failed, proceeding without it", "error", err)
			cacheKey = ""
		case !claimed:
			return h.replay(c, cacheKey, fingerprint)
		}
	}

	order, err := h.checkout.Checkout(ctx, actor.ID, &req)
	if err != nil {
		if cacheKey != "" {
			h.release(ctx, cacheKey)
		}
		return sendError(c, h.logger, err)
	}

	if cacheKey != "" {
		value := idempotencyValue(strconv.FormatInt(order.ID, 10), fingerprint)
		if err := h.cache.SetString(ctx, cacheKey, value, h.idempotencyTTL); err != nil {
			h.logger.WarnContext(ctx, "failed to record idempotency result", "order_id", order.ID, "error", err)
		}
	}
	return c.JSON(http.StatusCreated, order)
}

// replay answers a retried checkout with the order the first attempt made.
func (h *CustomerOrderHandlers) replay(c echo.Context, cacheKey, fingerprint string) error {
	ctx := c.Request().Context()
	value, err := h.cache.GetString(ctx, cacheKey)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read idempotency key", "error", err)
		return common.SendServerError(c, "Internal server error")
	}
	if value == "" {
		return common.SendConflictError(c, "A request with this Idempotency-Key is already in progress")
	}

	state, stored, _ := strings.Cut(value, "|")
	if stored != fingerprint {
		return common.SendConflictError(c, "Idempotency-Key was already used with a different request")
	}
	if state == idempotencyPending {
		return common.SendConflictError(c, "A request with this Idempotency-Key is already in progress")
	}

	orderID, err := strconv.ParseInt(state, 10, 64)
	if err != nil {
		h.logger.ErrorContext(ctx, "corrupt idempotency value", "value", value)
		return common.SendServerError(c, "Internal server error")
	}
	actor, _ := actorFrom(c)
	order, err := h.orders.GetOrder(ctx, orderID, actor)
	if err != nil {
		return sendError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, order)
}

// requestFingerprint identifies a checkout body independently of key order
// and whitespace in the original JSON.
func requestFingerprint(req *services.CheckoutRequest) string {
	body, _ := json.Marshal(req)
	return strconv.FormatUint(xxhash.Sum64(body), 16)
}

func idempotencyValue(state, fingerprint string) string {
	return state + "|" + fingerprint
}

func (h *CustomerOrderHandlers) release(ctx context.Context, cacheKey string) {
	if err := h.cache.Delete(ctx, cacheKey); err != nil {
		h.logger.WarnContext(ctx, "failed to release idempotency key", "error", err)
	}
}

// ListOrders handles GET /customer/orders
func (h *CustomerOrderHandlers) ListOrders(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return sendError(c, h.logger, err)
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return sendError(c, h.logger, err)
	}

	orders, err := h.orders.ListCustomerOrders(c.Request().Context(), actor.ID, limit, offset)
	if err != nil {
		return sendError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /customer/orders/:id
func (h *CustomerOrderHandlers) GetOrder(c echo.Context) error {
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

// CancelOrder handles POST /customer/orders/:id/cancel
func (h *CustomerOrderHandlers) CancelOrder(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := pathID(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	order, err := h.orders.Cancel(c.Request().Context(), id, actor)
	if err != nil {
		return sendError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, order)
}
