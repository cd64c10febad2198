// internal/workers/therapist/submit-therapist/handler.go
package submittherapist

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
	TaskType = "submit-therapist"
)

type Service interface {
	SubmitTherapist(ctx context.Context, spaID int64, f models.TherapistFields, docs models.TherapistDocuments) (*registration.Submission, error)
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
	if input.SpaID <= 0 {
		return nil, apperrors.NewValidationError("spa id is required",
			apperrors.FieldError{Field: "spaId", Message: "must be a positive integer"})
	}

	sub, err := h.service.SubmitTherapist(ctx, input.SpaID, input.Fields, input.FilePaths)
	if err != nil {
		return nil, err
	}
	return &Output{
		TherapistID:     sub.ID,
		ReferenceNumber: sub.ReferenceNumber,
		Status:          sub.Status,
	}, nil
}
