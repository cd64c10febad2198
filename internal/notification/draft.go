// internal/notification/draft.go
package notification

import (
	"spa-registry/internal/common/logger"
	"spa-registry/internal/common/metrics"
	"spa-registry/internal/models"
)

// Draft is a notification in logical terms, built by an operation before the
// write unit runs.
type Draft struct {
	Role          string // logical recipient role, e.g. "reviewer" or "spa_owner"
	RecipientID   *int64 // nil addresses every user of the role
	Title         string
	Message       string
	Type          string // info, success, warning, error
	Category      string // logical event, e.g. "approved"
	DomainContext string // "spa" or "therapist"
	RelatedType   string
	RelatedID     *int64
}

// Canonical produces the row to store.
func (m *Mapper) Canonical(d Draft) *models.Notification {
	return &models.Notification{
		RecipientType:     m.MapRecipient(d.Role),
		RecipientID:       d.RecipientID,
		Title:             d.Title,
		Message:           d.Message,
		Type:              MapType(d.Type),
		NotificationType:  m.MapNotificationCategory(d.Category, d.DomainContext),
		RelatedEntityType: d.RelatedType,
		RelatedEntityID:   d.RelatedID,
	}
}

// LogReporter logs fallbacks at warn and counts them.
type LogReporter struct {
	logger logger.Logger
}

func NewLogReporter(log logger.Logger) *LogReporter {
	return &LogReporter{logger: log}
}

func (r *LogReporter) MappingFallback(kind, value, fallback string) {
	metrics.NotificationMappingFallbacks.WithLabelValues(kind).Inc()
	r.logger.Warn("notification mapping fell back to default", map[string]interface{}{
		"kind":     kind,
		"value":    value,
		"fallback": fallback,
	})
}
