package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog is an append-only audit record
type ActivityLog struct {
	ID          int64     `json:"id" db:"id"`
	EventID     uuid.UUID `json:"eventId" db:"event_id"`
	Action      string    `json:"action" db:"action"`
	Description string    `json:"description" db:"description"`
	UserID      *int64    `json:"userId,omitempty" db:"user_id"`
	UserRole    *Role     `json:"userRole,omitempty" db:"user_role"`
	EntityType  string    `json:"entityType" db:"entity_type"`
	EntityID    *int64    `json:"entityId,omitempty" db:"entity_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Action constants for activity logs
const (
	ActionOrderCreated         = "ORDER_CREATED"
	ActionOrderStatusUpdated   = "ORDER_STATUS_UPDATED"
	ActionPaymentStatusUpdated = "PAYMENT_STATUS_UPDATED"
	ActionOrderCancelled       = "ORDER_CANCELLED"
	ActionShopDeleted          = "SHOP_DELETED"
	ActionStatsReconciled      = "STATS_RECONCILED"
)

// Entity types referenced by activity logs
const (
	EntityOrder = "ORDER"
	EntityShop  = "SHOP"
	EntityStats = "STATS"
)

// ActivityLogFilters represents filters for querying activity logs
type ActivityLogFilters struct {
	EntityType *string `json:"entityType"`
	EntityID   *int64  `json:"entityId"`
	UserID     *int64  `json:"userId"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
}
