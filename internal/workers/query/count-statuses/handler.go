// internal/workers/query/count-statuses/handler.go
package countstatuses

import (
	"context"
	"strings"

	"spa-registry/internal/common/camunda"
	apperrors "spa-registry/internal/common/errors"
	"spa-registry/internal/common/logger"
	"spa-registry/internal/common/observability"
)

const (
	TaskType = "count-statuses"
)

type Service interface {
	CountStatuses(ctx context.Context, entityType string) (map[string]int, error)
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

// Execute returns the per-status totals for spas or therapists.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	entity := strings.ToLower(strings.TrimSpace(input.EntityType))
	if entity == "" {
		return nil, apperrors.NewValidationError("entity type is required",
			apperrors.FieldError{Field: "entityType", Message: "is required"})
	}

	counts, err := h.service.CountStatuses(ctx, entity)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	return &Output{EntityType: entity, Counts: counts, Total: total}, nil
}
