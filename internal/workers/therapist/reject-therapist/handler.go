// internal/workers/therapist/reject-therapist/handler.go
package rejecttherapist

import (
	"context"

	"spa-registry/internal/common/camunda"
	apperrors "spa-registry/internal/common/errors"
	"spa-registry/internal/common/logger"
	"spa-registry/internal/common/observability"
	"spa-registry/internal/registration"
)

const (
	TaskType = "reject-therapist"
)

type Service interface {
	RejectTherapist(ctx context.Context, therapistID int64, reason, reviewedBy string) (*registration.Outcome, error)
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

// Execute rejects the therapist. A blank reason is refused by the service.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.TherapistID <= 0 {
		return nil, apperrors.NewValidationError("therapist id is required",
			apperrors.FieldError{Field: "therapistId", Message: "must be a positive integer"})
	}

	out, err := h.service.RejectTherapist(ctx, input.TherapistID, input.Reason, input.ReviewedBy)
	if err != nil {
		return nil, err
	}
	return &Output{
		TherapistID:    out.EntityID,
		PreviousStatus: out.PreviousStatus,
		Status:         out.Status,
	}, nil
}
