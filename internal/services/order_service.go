package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"unieats/internal/common"
	"unieats/internal/models"
	"unieats/internal/repositories"
	"unieats/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// EstimatedDeliveryWindow is added to the confirmation time.
const EstimatedDeliveryWindow = 30 * time.Minute

// OrderService drives order status and payment status changes. Every change
// runs as a locked read-modify-write on the order row.
type OrderService interface {
	// GetOrder returns the order if actor may see it, NotFound otherwise.
	GetOrder(ctx context.Context, id int64, actor models.UserRef) (*models.Order, error)
	ListShopOrders(ctx context.Context, shopID int64, filter models.OrderFilter) ([]*models.Order, error)
	ListCustomerOrders(ctx context.Context, customerID int64, limit, offset int) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id int64, status models.OrderStatus, actor models.UserRef) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status models.PaymentStatus, actor models.UserRef) (*models.Order, error)
	Cancel(ctx context.Context, id int64, actor models.UserRef) (*models.Order, error)
}

type orderService struct {
	orders   repositories.OrderRepository
	activity ActivityLogService
	metrics  *telemetry.OrderMetrics
	logger   *slog.Logger
	now      func() time.Time
}

func NewOrderService(orders repositories.OrderRepository, activity ActivityLogService, metrics *telemetry.OrderMetrics, logger *slog.Logger) OrderService {
	return &orderService{
		orders:   orders,
		activity: activity,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *orderService) GetOrder(ctx context.Context, id int64, actor models.UserRef) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, translateErr(err, "Order", id)
	}
	if !canAccess(order, actor) {
		return nil, common.NotFound("Order", id)
	}
	return order, nil
}

func (s *orderService) ListShopOrders(ctx context.Context, shopID int64, filter models.OrderFilter) ([]*models.Order, error) {
	limit, offset, err := common.ValidatePaginationParams(filter.Limit, filter.Offset)
	if err != nil {
		return nil, common.Validation("offset", "%s", err.Error())
	}
	filter.Limit, filter.Offset = limit, offset
	return s.orders.ListByShop(ctx, shopID, filter)
}

func (s *orderService) ListCustomerOrders(ctx context.Context, customerID int64, limit, offset int) ([]*models.Order, error) {
	limit, offset, err := common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return nil, common.Validation("offset", "%s", err.Error())
	}
	return s.orders.ListByCustomer(ctx, customerID, limit, offset)
}

// UpdateStatus sets the status of a non-terminal order. Setting CONFIRMED
// stamps the estimated delivery time, setting DELIVERED stamps the actual
// delivery time.
func (s *orderService) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus, actor models.UserRef) (*models.Order, error) {
	if !status.Valid() {
		return nil, common.Validation("status", "invalid order status %q", status)
	}

	var previous models.OrderStatus
	order, err := s.mutate(ctx, "order.update_status", id, actor, func(order *models.Order) error {
		previous = order.Status
		if !previous.CanTransitionTo(status) {
			return common.Conflict("cannot transition order with status %s", previous)
		}

		order.Status = status
		now := s.now()
		switch status {
		case models.OrderStatusConfirmed:
			estimated := now.Add(EstimatedDeliveryWindow)
			order.EstimatedDeliveryTime = &estimated
		case models.OrderStatusDelivered:
			order.ActualDeliveryTime = &now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.StatusTransition(ctx, previous.String(), status.String())
	s.activity.Log(ctx, models.ActionOrderStatusUpdated,
		fmt.Sprintf("Order status changed from %s to %s for order: %s", previous, status, order.OrderNumber),
		&actor, models.EntityOrder, &order.ID)
	return order, nil
}

func (s *orderService) UpdatePaymentStatus(ctx context.Context, id int64, status models.PaymentStatus, actor models.UserRef) (*models.Order, error) {
	if !status.Valid() {
		return nil, common.Validation("paymentStatus", "invalid payment status %q", status)
	}

	var previous models.PaymentStatus
	order, err := s.mutate(ctx, "order.update_payment_status", id, actor, func(order *models.Order) error {
		previous = order.PaymentStatus
		order.PaymentStatus = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.Log(ctx, models.ActionPaymentStatusUpdated,
		fmt.Sprintf("Payment status changed from %s to %s for order: %s", previous, status, order.OrderNumber),
		&actor, models.EntityOrder, &order.ID)
	return order, nil
}

func (s *orderService) Cancel(ctx context.Context, id int64, actor models.UserRef) (*models.Order, error) {
	var previous models.OrderStatus
	order, err := s.mutate(ctx, "order.cancel", id, actor, func(order *models.Order) error {
		previous = order.Status
		if !previous.CanTransitionTo(models.OrderStatusCancelled) {
			return common.Conflict("cannot cancel order with status %s", previous)
		}
		order.Status = models.OrderStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.StatusTransition(ctx, previous.String(), models.OrderStatusCancelled.String())
	s.activity.Log(ctx, models.ActionOrderCancelled, fmt.Sprintf("Order cancelled: %s", order.OrderNumber),
		&actor, models.EntityOrder, &order.ID)
	return order, nil
}

// mutate runs change under the row lock after checking that actor owns the
// order.
func (s *orderService) mutate(ctx context.Context, spanName string, id int64, actor models.UserRef, change func(*models.Order) error) (*models.Order, error) {
	ctx, span := tracer.Start(ctx, spanName, trace.WithAttributes(attribute.Int64("order_id", id)))
	defer span.End()

	order, err := s.orders.Mutate(ctx, id, func(order *models.Order) error {
		if !canAccess(order, actor) {
			return common.Forbidden("order %d does not belong to this account", id)
		}
		return change(order)
	})
	if err != nil {
		err = translateErr(err, "Order", id)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	s.logger.InfoContext(ctx, "order updated",
		"order_id", order.ID, "status", order.Status, "payment_status", order.PaymentStatus, "version", order.Version)
	return order, nil
}

func canAccess(order *models.Order, actor models.UserRef) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleShop:
		return order.ShopID == actor.ID
	case models.RoleCustomer:
		return order.CustomerID == actor.ID
	}
	return false
}
