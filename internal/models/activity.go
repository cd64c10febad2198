// internal/models/activity.go
package models

import "time"

// Actor types recorded on audit rows.
const (
	ActorAdminLSA = "admin_lsa"
	ActorSpa      = "spa"
	ActorSystem   = "system"
)

// ActivityLog is an immutable audit record, one per successful transition.
type ActivityLog struct {
	ID          int64     `json:"id"`
	EntityType  string    `json:"entityType"`
	EntityID    int64     `json:"entityId"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	ActorType   string    `json:"actorType"`
	ActorID     string    `json:"actorId,omitempty"`
	ActorName   string    `json:"actorName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Notification is a persisted message for a recipient role. RecipientID is nil
// for role-wide notifications (every admin_lsa user).
type Notification struct {
	ID                int64     `json:"id"`
	RecipientType     string    `json:"recipientType"`
	RecipientID       *int64    `json:"recipientId,omitempty"`
	Title             string    `json:"title"`
	Message           string    `json:"message"`
	Type              string    `json:"type"`             // info, success, warning, error
	NotificationType  string    `json:"notificationType"` // canonical category
	RelatedEntityType string    `json:"relatedEntityType,omitempty"`
	RelatedEntityID   *int64    `json:"relatedEntityId,omitempty"`
	IsRead            bool      `json:"isRead"`
	CreatedAt         time.Time `json:"createdAt"`
}
