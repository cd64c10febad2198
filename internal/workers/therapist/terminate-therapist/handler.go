// internal/workers/therapist/terminate-therapist/handler.go
package terminatetherapist

import (
	"context"
	"time"

	"spa-registry/internal/common/camunda"
	apperrors "spa-registry/internal/common/errors"
	"spa-registry/internal/common/logger"
	"spa-registry/internal/common/observability"
	"spa-registry/internal/registration"
)

const (
	TaskType = "terminate-therapist"
)

type Service interface {
	TerminateTherapist(ctx context.Context, therapistID, spaID int64, reason string) (*registration.Outcome, error)
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
	var fields []apperrors.FieldError
	if input.TherapistID <= 0 {
		fields = append(fields, apperrors.FieldError{Field: "therapistId", Message: "must be a positive integer"})
	}
	if input.SpaID <= 0 {
		fields = append(fields, apperrors.FieldError{Field: "spaId", Message: "must be a positive integer"})
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError("invalid terminate request", fields...)
	}

	out, err := h.service.TerminateTherapist(ctx, input.TherapistID, input.SpaID, input.Reason)
	if err != nil {
		return nil, err
	}
	return &Output{
		TherapistID:   out.EntityID,
		Status:        out.Status,
		TerminatedAt:  out.At.UTC().Format(time.RFC3339),
		HistoryClosed: out.HistoryClosed,
	}, nil
}
