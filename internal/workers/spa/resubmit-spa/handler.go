// internal/workers/spa/resubmit-spa/handler.go
package resubmitspa

import (
	"context"

	"spa-registry/internal/common/camunda"
	apperrors "spa-registry/internal/common/errors"
	"spa-registry/internal/common/logger"
	"spa-registry/internal/common/observability"
	"spa-registry/internal/models"
	"spa-registry/internal/registration"
)

const (
	TaskType = "resubmit-spa"
)

type Service interface {
	ResubmitSpa(ctx context.Context, spaID int64, f models.SpaFields, docs models.SpaDocuments) (*registration.Outcome, error)
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

// Execute resubmits a rejected spa. Document categories left out keep their files.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.SpaID <= 0 {
		return nil, apperrors.NewValidationError("spa id is required",
			apperrors.FieldError{Field: "spaId", Message: "must be a positive integer"})
	}

	out, err := h.service.ResubmitSpa(ctx, input.SpaID, input.UpdatedFields, input.FilePaths)
	if err != nil {
		return nil, err
	}
	return &Output{SpaID: out.EntityID, Status: out.Status}, nil
}
