// internal/workers/spa/set-spa-status/handler.go
package setspastatus

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
	TaskType = "set-spa-status"
)

type Service interface {
	SetSpaStatus(ctx context.Context, spaID int64, status, reason, reviewedBy string) (*registration.Outcome, error)
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

	out, err := h.service.SetSpaStatus(ctx, input.SpaID, input.Status, input.Reason, input.VerifiedBy)
	if err != nil {
		return nil, err
	}
	return &Output{
		SpaID:          out.EntityID,
		PreviousStatus: out.PreviousStatus,
		Status:         out.Status,
		UpdatedAt:      out.At.UTC().Format(time.RFC3339),
	}, nil
}
