// internal/workers/notification/list-notifications/models.go
package listnotifications

import "spa-registry/internal/models"

type Input struct {
	RecipientType string `json:"recipientType"`
	RecipientID   *int64 `json:"recipientId,omitempty"`
	UnreadOnly    bool   `json:"unreadOnly,omitempty"`
	Page          int    `json:"page,omitempty"`
	Limit         int    `json:"limit,omitempty"`
}

type Output struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int                   `json:"total"`
	Page          int                   `json:"page"`
	Limit         int                   `json:"limit"`
	TotalPages    int                   `json:"totalPages"`
}
