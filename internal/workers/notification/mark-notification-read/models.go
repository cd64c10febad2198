// internal/workers/notification/mark-notification-read/models.go
package marknotificationread

type Input struct {
	NotificationID int64  `json:"notificationId"`
	RecipientType  string `json:"recipientType"`
}

type Output struct {
	NotificationID int64 `json:"notificationId"`
	IsRead         bool  `json:"isRead"`
}
