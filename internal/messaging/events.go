package messaging

import (
	"time"

	"github.com/google/uuid"
)

// ActivityEvent is the wire form of an activity log entry.
type ActivityEvent struct {
	EventID     uuid.UUID `json:"eventId"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	UserID      *int64    `json:"userId,omitempty"`
	UserRole    string    `json:"userRole,omitempty"`
	EntityType  string    `json:"entityType"`
	EntityID    *int64    `json:"entityId,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
