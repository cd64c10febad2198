// internal/workers/notification/mark-notification-read/handler.go
package marknotificationread

import (
	"context"

	"spa-registry/internal/common/camunda"
	apperrors "spa-registry/internal/common/errors"
	"spa-registry/internal/common/logger"
	"spa-registry/internal/common/observability"
)

const (
	TaskType = "mark-notification-read"
)

type Service interface {
	MarkNotificationRead(ctx context.Context, id int64, role string) error
}

type Handler struct {
	*camunda.JobRunner[Input, Output]
	service Service
	logger  logger.Logger
}

func NewHandler(config *Config, service Service, log logger.Logger, obs *observability.Observability) *Handler {
	h := &Handler{
		service: service,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
	h.JobRunner = camunda.NewJobRunner(TaskType, config.Timeout, h.Execute, log, obs)
	return h
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.NotificationID <= 0 {
		return nil, apperrors.NewValidationError("invalid notification id",
			apperrors.FieldError{Field: "notificationId", Message: "must be a positive integer"})
	}
	if err := h.service.MarkNotificationRead(ctx, input.NotificationID, input.RecipientType); err != nil {
		return nil, err
	}
	return &Output{NotificationID: input.NotificationID, IsRead: true}, nil
}
