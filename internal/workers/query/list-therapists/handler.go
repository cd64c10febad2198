// internal/workers/query/list-therapists/handler.go
package listtherapists

import (
	"context"

	"spa-registry/internal/common/camunda"
	"spa-registry/internal/common/logger"
	"spa-registry/internal/common/observability"
	"spa-registry/internal/models"
	"spa-registry/internal/query"
)

const (
	TaskType = "list-therapists"
)

type Service interface {
	ListTherapists(ctx context.Context, f query.FilterSpec, page, limit int) (*query.Page[models.Therapist], error)
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
	spec := query.ParseFilterSpec(query.StringValues(input.Filters))
	if len(input.Filters) == 0 && input.Status != "" {
		spec = query.TherapistStatusFilter(input.Status)
		h.logger.Debug("Using status-only therapist filter", map[string]interface{}{"status": spec.Status})
	}

	page, err := h.service.ListTherapists(ctx, spec, input.Page, input.Limit)
	if err != nil {
		return nil, err
	}

	therapists := page.Items
	if therapists == nil {
		therapists = []models.Therapist{}
	}
	return &Output{
		Therapists: therapists,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}, nil
}
