// internal/workers/query/list-spas/handler.go
package listspas

import (
	"context"

	"spa-registry/internal/common/camunda"
	"spa-registry/internal/common/logger"
	"spa-registry/internal/common/observability"
	"spa-registry/internal/models"
	"spa-registry/internal/query"
)

const (
	TaskType = "list-spas"
)

type Service interface {
	ListSpas(ctx context.Context, f query.FilterSpec, page, limit int) (*query.Page[models.Spa], error)
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

// Execute lists spas matching the recognized filters. Unknown filter keys are ignored.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	spec := query.ParseFilterSpec(query.StringValues(input.Filters))

	page, err := h.service.ListSpas(ctx, spec, input.Page, input.Limit)
	if err != nil {
		return nil, err
	}

	spas := page.Items
	if spas == nil {
		spas = []models.Spa{}
	}
	h.logger.Debug("Listed spas", map[string]interface{}{"total": page.Total, "page": page.Page})
	return &Output{
		Spas:       spas,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}, nil
}
