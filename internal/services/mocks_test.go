package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"unieats/internal/models"
	"unieats/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateWithItems(ctx context.Context, order *models.Order, hooks ...repositories.TxHook) error {
	args := m.Called(ctx, order, hooks)
	if fn, ok := args.Get(0).(func(context.Context, *models.Order, []repositories.TxHook) error); ok {
		return fn(ctx, order, hooks)
	}
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

// Mutate applies fn to the order registered via On("Mutate", ...).Return(order, nil)
// the way the repository does under the row lock.
func (m *MockOrderRepository) Mutate(ctx context.Context, id int64, fn func(order *models.Order) error) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	order := *args.Get(0).(*models.Order)
	if err := fn(&order); err != nil {
		return nil, err
	}
	order.Version++
	return &order, nil
}

func (m *MockOrderRepository) ListByShop(ctx context.Context, shopID int64, filter models.OrderFilter) ([]*models.Order, error) {
	args := m.Called(ctx, shopID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, customerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByShopAndDateRange(ctx context.Context, shopID int64, start, end time.Time) ([]*models.Order, error) {
	args := m.Called(ctx, shopID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) GetByID(ctx context.Context, id int64) (*models.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Shop), args.Error(1)
}

func (m *MockShopRepository) ListActive(ctx context.Context) ([]*models.Shop, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Shop), args.Error(1)
}

func (m *MockShopRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockFoodRepository struct {
	mock.Mock
}

func (m *MockFoodRepository) GetByID(ctx context.Context, id int64) (*models.Food, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Food), args.Error(1)
}

func (m *MockFoodRepository) ListByShop(ctx context.Context, shopID int64) ([]*models.Food, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Food), args.Error(1)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) IncrementFoodOrders(ctx context.Context, q repositories.Querier, foodIDs []int64) error {
	args := m.Called(ctx, q, foodIDs)
	return args.Error(0)
}

func (m *MockStatsRepository) IncrementCustomerStats(ctx context.Context, q repositories.Querier, customerID int64, amount decimal.Decimal) error {
	args := m.Called(ctx, q, customerID, amount)
	return args.Error(0)
}

func (m *MockStatsRepository) IncrementShopOrders(ctx context.Context, q repositories.Querier, shopID int64) error {
	args := m.Called(ctx, q, shopID)
	return args.Error(0)
}

func (m *MockStatsRepository) Reconcile(ctx context.Context) (*models.ReconcileResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReconcileResult), args.Error(1)
}

type MockActivityLogRepository struct {
	mock.Mock
}

func (m *MockActivityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockActivityLogRepository) List(ctx context.Context, filters *models.ActivityLogFilters) ([]*models.ActivityLog, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ActivityLog), args.Error(1)
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

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, key string, event any) error {
	args := m.Called(ctx, key, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockMinioService struct {
	mock.Mock
}

func (m *MockMinioService) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, contentType)
	return args.Error(0)
}

func (m *MockMinioService) ObjectExists(ctx context.Context, bucketName, objectName string) (bool, error) {
	args := m.Called(ctx, bucketName, objectName)
	return args.Bool(0), args.Error(1)
}

func (m *MockMinioService) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}
