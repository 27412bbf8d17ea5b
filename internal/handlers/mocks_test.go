package handlers

import (
	"context"
	"time"

	"unieats/internal/models"
	"unieats/internal/repositories"
	"unieats/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Checkout(ctx context.Context, customerID int64, req *services.CheckoutRequest) (*models.Order, error) {
	args := m.Called(ctx, customerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) GetOrder(ctx context.Context, id int64, actor models.UserRef) (*models.Order, error) {
	args := m.Called(ctx, id, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) ListShopOrders(ctx context.Context, shopID int64, filter models.OrderFilter) ([]*models.Order, error) {
	args := m.Called(ctx, shopID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderService) ListCustomerOrders(ctx context.Context, customerID int64, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, customerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus, actor models.UserRef) (*models.Order, error) {
	args := m.Called(ctx, id, status, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) UpdatePaymentStatus(ctx context.Context, id int64, status models.PaymentStatus, actor models.UserRef) (*models.Order, error) {
	args := m.Called(ctx, id, status, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) Cancel(ctx context.Context, id int64, actor models.UserRef) (*models.Order, error) {
	args := m.Called(ctx, id, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

type MockRevenueService struct {
	mock.Mock
}

func (m *MockRevenueService) TotalRevenue(ctx context.Context, shopID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, shopID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRevenueService) RevenueBetween(ctx context.Context, shopID int64, start, end time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, shopID, start, end)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRevenueService) Report(ctx context.Context, shopID int64) (*models.RevenueReport, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RevenueReport), args.Error(1)
}

func (m *MockRevenueService) Dashboard(ctx context.Context, shopID int64) (*models.DashboardStats, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardStats), args.Error(1)
}

func (m *MockRevenueService) MonthlyStatement(ctx context.Context, shopID int64, monthStart time.Time) (*models.RevenueStatement, error) {
	args := m.Called(ctx, shopID, monthStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RevenueStatement), args.Error(1)
}

type MockStatementService struct {
	mock.Mock
}

func (m *MockStatementService) ArchiveMonth(ctx context.Context, month time.Time) (int, error) {
	args := m.Called(ctx, month)
	return args.Int(0), args.Error(1)
}

func (m *MockStatementService) PresignedURL(ctx context.Context, shopID int64, month string) (string, error) {
	args := m.Called(ctx, shopID, month)
	return args.String(0), args.Error(1)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) GetShop(ctx context.Context, id int64) (*models.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Shop), args.Error(1)
}

func (m *MockCatalogService) GetFood(ctx context.Context, id int64) (*models.Food, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Food), args.Error(1)
}

func (m *MockCatalogService) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCatalogService) DeleteShop(ctx context.Context, id int64, actor *models.UserRef) error {
	return m.Called(ctx, id, actor).Error(0)
}

type MockActivityLogService struct {
	mock.Mock
}

func (m *MockActivityLogService) Log(ctx context.Context, action, description string, actor *models.UserRef, entityType string, entityID *int64) {
	m.Called(ctx, action, description, actor, entityType, entityID)
}

func (m *MockActivityLogService) List(ctx context.Context, filters *models.ActivityLogFilters) ([]*models.ActivityLog, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ActivityLog), args.Error(1)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) CheckoutHook() repositories.TxHook {
	return nil
}

func (m *MockStatsService) Reconcile(ctx context.Context, actor *models.UserRef) (*models.ReconcileResult, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReconcileResult), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCache) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
