package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"unieats/internal/messaging"
	"unieats/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ActivityLogServiceTestSuite struct {
	suite.Suite
	repo      *MockActivityLogRepository
	publisher *MockPublisher
	service   ActivityLogService
	now       time.Time
}

func (suite *ActivityLogServiceTestSuite) SetupTest() {
	suite.repo = &MockActivityLogRepository{}
	suite.publisher = &MockPublisher{}
	suite.now = time.Date(2026, 1, 9, 8, 0, 0, 0, time.UTC)

	service := NewActivityLogService(suite.repo, suite.publisher, discardLogger()).(*activityLogService)
	service.now = func() time.Time { return suite.now }
	suite.service = service
}

func (suite *ActivityLogServiceTestSuite) TearDownTest() {
	suite.repo.AssertExpectations(suite.T())
	suite.publisher.AssertExpectations(suite.T())
}

func TestActivityLogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ActivityLogServiceTestSuite))
}

func (suite *ActivityLogServiceTestSuite) TestLog_StoresAndPublishes() {
	orderID := int64(42)
	var stored *models.ActivityLog
	suite.repo.On("Create", mock.Anything, mock.AnythingOfType("*models.ActivityLog")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*models.ActivityLog) }).
		Return(nil).Once()
	suite.publisher.On("Publish", mock.Anything, "ORDER:42", mock.AnythingOfType("messaging.ActivityEvent")).
		Run(func(args mock.Arguments) {
			event := args.Get(2).(messaging.ActivityEvent)
			assert.Equal(suite.T(), "CUSTOMER", event.UserRole)
			assert.Equal(suite.T(), suite.now, event.Timestamp)
		}).
		Return(nil).Once()

	suite.service.Log(context.Background(), models.ActionOrderCreated, "Order created: ORD-20260109-000042",
		&models.UserRef{ID: 7, Role: models.RoleCustomer}, models.EntityOrder, &orderID)

	require.NotNil(suite.T(), stored)
	assert.NotEqual(suite.T(), uuid.Nil, stored.EventID)
	assert.Equal(suite.T(), models.ActionOrderCreated, stored.Action)
	assert.Equal(suite.T(), int64(7), *stored.UserID)
	assert.Equal(suite.T(), models.RoleCustomer, *stored.UserRole)
	assert.Equal(suite.T(), int64(42), *stored.EntityID)
	assert.Equal(suite.T(), suite.now, stored.CreatedAt)
}

func (suite *ActivityLogServiceTestSuite) TestLog_FailuresAreSwallowed() {
	suite.repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
	suite.publisher.On("Publish", mock.Anything, "STATS", mock.Anything).Return(errors.New("broker unavailable")).Once()

	assert.NotPanics(suite.T(), func() {
		suite.service.Log(context.Background(), models.ActionStatsReconciled, "Counters corrected", nil, models.EntityStats, nil)
	})
}

func (suite *ActivityLogServiceTestSuite) TestList_AppliesPaginationDefaults() {
	filters := &models.ActivityLogFilters{Offset: -5}
	suite.repo.On("List", mock.Anything, filters).Return([]*models.ActivityLog{{ID: 1}}, nil).Once()

	logs, err := suite.service.List(context.Background(), filters)

	require.NoError(suite.T(), err)
	assert.Len(suite.T(), logs, 1)
	assert.Equal(suite.T(), 50, filters.Limit)
	assert.Equal(suite.T(), 0, filters.Offset)
}

func TestNewActivityLogService_NilPublisher(t *testing.T) {
	repo := &MockActivityLogRepository{}
	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	service := NewActivityLogService(repo, nil, discardLogger())
	service.Log(context.Background(), models.ActionShopDeleted, "Shop deleted: 1", nil, models.EntityShop, nil)

	repo.AssertExpectations(t)
}
