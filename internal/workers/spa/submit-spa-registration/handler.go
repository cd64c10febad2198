// internal/workers/spa/submit-spa-registration/handler.go
package submitsparegistration

import (
	"context"

	"spa-registry/internal/common/camunda"
	"spa-registry/internal/common/logger"
	"spa-registry/internal/common/observability"
	"spa-registry/internal/models"
	"spa-registry/internal/registration"
)

const (
	TaskType = "submit-spa-registration"
)

type Service interface {
	SubmitSpaRegistration(ctx context.Context, f models.SpaFields, docs models.SpaDocuments) (*registration.Submission, error)
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

// Execute creates the spa. Unknown file path categories were dropped while decoding.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	sub, err := h.service.SubmitSpaRegistration(ctx, input.Fields, input.FilePaths)
	if err != nil {
		return nil, err
	}
	return &Output{
		SpaID:           sub.ID,
		ReferenceNumber: sub.ReferenceNumber,
		Status:          sub.Status,
	}, nil
}
