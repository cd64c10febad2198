// internal/workers/notification/list-notifications/handler.go
package listnotifications

import (
	"context"

	"spa-registry/internal/common/camunda"
	"spa-registry/internal/common/logger"
	"spa-registry/internal/common/observability"
	"spa-registry/internal/models"
	"spa-registry/internal/query"
	"spa-registry/internal/registration"
)

const (
	TaskType = "list-notifications"
)

type Service interface {
	ListNotifications(ctx context.Context, in registration.Inbox, page, limit int) (*query.Page[models.Notification], error)
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

// Execute reads one recipient's inbox. The recipient type accepts the same logical
// roles the notification mapper resolves.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	page, err := h.service.ListNotifications(ctx, registration.Inbox{
		Role:        input.RecipientType,
		RecipientID: input.RecipientID,
		UnreadOnly:  input.UnreadOnly,
	}, input.Page, input.Limit)
	if err != nil {
		return nil, err
	}

	items := page.Items
	if items == nil {
		items = []models.Notification{}
	}
	return &Output{
		Notifications: items,
		Total:         page.Total,
		Page:          page.Page,
		Limit:         page.Limit,
		TotalPages:    page.TotalPages,
	}, nil
}
