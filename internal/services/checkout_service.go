package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"unieats/internal/common"
	"unieats/internal/models"
	"unieats/internal/repositories"
	"unieats/internal/telemetry"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxDeliveryTextLength = 500

type CheckoutItem struct {
	FoodID   int64 `json:"foodId"`
	Quantity int   `json:"quantity"`
}

type CheckoutRequest struct {
	ShopID               int64          `json:"shopId"`
	Items                []CheckoutItem `json:"items"`
	DeliveryAddress      *string        `json:"deliveryAddress"`
	DeliveryInstructions *string        `json:"deliveryInstructions"`
}

// CheckoutService builds orders from carts.
type CheckoutService interface {
	Checkout(ctx context.Context, customerID int64, req *CheckoutRequest) (*models.Order, error)
}

type checkoutService struct {
	catalog     CatalogService
	orders      repositories.OrderRepository
	stats       StatsService
	activity    ActivityLogService
	metrics     *telemetry.OrderMetrics
	logger      *slog.Logger
	maxQuantity int
	now         func() time.Time
}

func NewCheckoutService(catalog CatalogService, orders repositories.OrderRepository, stats StatsService, activity ActivityLogService,
	metrics *telemetry.OrderMetrics, logger *slog.Logger, maxQuantity int) CheckoutService {
	return &checkoutService{
		catalog:     catalog,
		orders:      orders,
		stats:       stats,
		activity:    activity,
		metrics:     metrics,
		logger:      logger,
		maxQuantity: maxQuantity,
		now:         time.Now,
	}
}

// Checkout validates the cart, prices it from the catalog and persists the
// order, its items and the statistics updates in one transaction. Nothing is
// written unless every check passes.
func (s *checkoutService) Checkout(ctx context.Context, customerID int64, req *CheckoutRequest) (*models.Order, error) {
	ctx, span := tracer.Start(ctx, "checkout", trace.WithAttributes(
		attribute.Int64("customer_id", customerID),
		attribute.Int64("shop_id", req.ShopID),
		attribute.Int("items", len(req.Items)),
	))
	defer span.End()

	order, err := s.checkout(ctx, customerID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.CheckoutFailed(ctx, failureReason(err))
		return nil, err
	}

	total, _ := order.TotalAmount.Float64()
	s.metrics.OrderCreated(ctx, order.ShopID, total)
	s.logger.InfoContext(ctx, "order created",
		"order_id", order.ID, "order_number", order.OrderNumber, "customer_id", customerID, "shop_id", order.ShopID)
	s.activity.Log(ctx, models.ActionOrderCreated, fmt.Sprintf("Order created: %s", order.OrderNumber),
		&models.UserRef{ID: customerID, Role: models.RoleCustomer}, models.EntityOrder, &order.ID)

	return order, nil
}

func (s *checkoutService) checkout(ctx context.Context, customerID int64, req *CheckoutRequest) (*models.Order, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	if _, err := s.catalog.GetShop(ctx, req.ShopID); err != nil {
		return nil, err
	}
	customer, err := s.catalog.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	foods := make([]*models.Food, len(req.Items))
	for i, item := range req.Items {
		food, err := s.catalog.GetFood(ctx, item.FoodID)
		if err != nil {
			return nil, err
		}
		foods[i] = food
	}
	for _, food := range foods {
		if food.ShopID != req.ShopID {
			return nil, common.Validation("items", "all items must belong to the same shop")
		}
	}

	deliveryAddress := strings.TrimSpace(common.SafeString(req.DeliveryAddress))
	if deliveryAddress == "" {
		deliveryAddress = customer.FullAddress()
	}
	if deliveryAddress == "" {
		return nil, common.Validation("deliveryAddress", "delivery address is required")
	}

	order := &models.Order{
		CustomerID:           customerID,
		ShopID:               req.ShopID,
		Status:               models.OrderStatusConfirmed,
		PaymentStatus:        models.PaymentStatusPaid,
		DeliveryAddress:      deliveryAddress,
		DeliveryInstructions: req.DeliveryInstructions,
		CreatedAt:            s.now(),
	}
	order.Items, order.TotalAmount = priceItems(req.Items, foods)

	if err := s.orders.CreateWithItems(ctx, order, s.stats.CheckoutHook()); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return order, nil
}

func (s *checkoutService) validateRequest(req *CheckoutRequest) error {
	if req.ShopID <= 0 {
		return common.Validation("shopId", "shopId must be positive")
	}
	if len(req.Items) == 0 {
		return common.Validation("items", "order must contain at least one item")
	}
	for i, item := range req.Items {
		if item.FoodID <= 0 {
			return common.Validation(fmt.Sprintf("items[%d].foodId", i), "foodId must be positive")
		}
		field := fmt.Sprintf("items[%d].quantity", i)
		if err := common.ValidatePositiveInteger(item.Quantity, field, s.maxQuantity); err != nil {
			return common.Validation(field, "%s", err.Error())
		}
	}
	if err := common.ValidateOptionalString(req.DeliveryAddress, "deliveryAddress", maxDeliveryTextLength); err != nil {
		return common.Validation("deliveryAddress", "%s", err.Error())
	}
	if err := common.ValidateOptionalString(req.DeliveryInstructions, "deliveryInstructions", maxDeliveryTextLength); err != nil {
		return common.Validation("deliveryInstructions", "%s", err.Error())
	}
	return nil
}

// priceItems captures each food's price once and accumulates the total in
// input order.
func priceItems(items []CheckoutItem, foods []*models.Food) ([]*models.OrderItem, decimal.Decimal) {
	lines := make([]*models.OrderItem, len(items))
	total := decimal.Zero
	for i, item := range items {
		unitPrice := foods[i].Price
		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		lines[i] = &models.OrderItem{
			FoodID:     foods[i].ID,
			FoodName:   foods[i].Name,
			Quantity:   item.Quantity,
			UnitPrice:  unitPrice,
			TotalPrice: lineTotal,
		}
		total = total.Add(lineTotal)
	}
	return lines, total
}
