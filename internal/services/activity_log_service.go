package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"unieats/internal/common"
	"unieats/internal/messaging"
	"unieats/internal/models"
	"unieats/internal/repositories"

	"github.com/google/uuid"
)

// ActivityLogService records audit entries. Log never fails the caller:
// storage and publish errors are logged and dropped.
type ActivityLogService interface {
	Log(ctx context.Context, action, description string, actor *models.UserRef, entityType string, entityID *int64)
	List(ctx context.Context, filters *models.ActivityLogFilters) ([]*models.ActivityLog, error)
}

type activityLogService struct {
	repo      repositories.ActivityLogRepository
	publisher messaging.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewActivityLogService(repo repositories.ActivityLogRepository, publisher messaging.Publisher, logger *slog.Logger) ActivityLogService {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	return &activityLogService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *activityLogService) Log(ctx context.Context, action, description string, actor *models.UserRef, entityType string, entityID *int64) {
	entry := &models.ActivityLog{
		EventID:     uuid.New(),
		Action:      action,
		Description: description,
		EntityType:  entityType,
		EntityID:    entityID,
		CreatedAt:   s.now(),
	}
	if actor != nil {
		userID, role := actor.ID, actor.Role
		entry.UserID = &userID
		entry.UserRole = &role
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "failed to store activity log", "action", action, "error", err)
	}

	event := messaging.ActivityEvent{
		EventID:     entry.EventID,
		Action:      entry.Action,
		Description: entry.Description,
		UserID:      entry.UserID,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Timestamp:   entry.CreatedAt,
	}
	if actor != nil {
		event.UserRole = string(actor.Role)
	}
	if err := s.publisher.Publish(ctx, activityKey(entityType, entityID), event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish activity event", "action", action, "error", err)
	}
}

func (s *activityLogService) List(ctx context.Context, filters *models.ActivityLogFilters) ([]*models.ActivityLog, error) {
	limit, offset, err := common.ValidatePaginationParams(filters.Limit, filters.Offset)
	if err != nil {
		return nil, common.Validation("offset", "%s", err.Error())
	}
	filters.Limit, filters.Offset = limit, offset
	return s.repo.List(ctx, filters)
}

// activityKey keeps all events of one entity on one partition.
func activityKey(entityType string, entityID *int64) string {
	if entityID == nil {
		return entityType
	}
	return fmt.Sprintf("%s:%d", entityType, *entityID)
}
