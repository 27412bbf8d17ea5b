package repositories

import (
	"context"
	"fmt"
	"strings"

	"unieats/internal/models"
)

type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, filters *models.ActivityLogFilters) ([]*models.ActivityLog, error)
}

type activityLogRepo struct {
	db Querier
}

func NewActivityLogRepo(db Querier) ActivityLogRepository {
	return &activityLogRepo{db: db}
}

func (r *activityLogRepo) Create(ctx context.Context, entry *models.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (event_id, action, description, user_id, user_role, entity_type, entity_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.db.QueryRow(ctx, query,
		entry.EventID, entry.Action, entry.Description, entry.UserID, entry.UserRole, entry.EntityType, entry.EntityID, entry.CreatedAt,
	).Scan(&entry.ID)
}

func (r *activityLogRepo) List(ctx context.Context, filters *models.ActivityLogFilters) ([]*models.ActivityLog, error) {
	conditions := []string{"1=1"}
	args := []any{}

	if filters.EntityType != nil {
		args = append(args, *filters.EntityType)
		conditions = append(conditions, fmt.Sprintf("entity_type = $%d", len(args)))
	}
	if filters.EntityID != nil {
		args = append(args, *filters.EntityID)
		conditions = append(conditions, fmt.Sprintf("entity_id = $%d", len(args)))
	}
	if filters.UserID != nil {
		args = append(args, *filters.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	args = append(args, filters.Limit, filters.Offset)

	query := fmt.Sprintf(`
		SELECT id, event_id, action, description, user_id, user_role, entity_type, entity_id, created_at
		FROM activity_logs
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, strings.Join(conditions, " AND "), len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*models.ActivityLog{}
	for rows.Next() {
		entry := &models.ActivityLog{}
		if err := rows.Scan(&entry.ID, &entry.EventID, &entry.Action, &entry.Description, &entry.UserID, &entry.UserRole, &entry.EntityType, &entry.EntityID, &entry.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}
