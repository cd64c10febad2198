// internal/workers/directory/sync-spa-directory/handler.go
package syncspadirectory

import (
	"context"

	"spa-registry/internal/common/camunda"
	apperrors "spa-registry/internal/common/errors"
	"spa-registry/internal/common/logger"
	"spa-registry/internal/common/observability"
	"spa-registry/internal/models"
)

const (
	TaskType = "sync-spa-directory"
)

type SpaReader interface {
	GetSpa(ctx context.Context, id int64) (*models.Spa, error)
}

type Directory interface {
	Sync(ctx context.Context, s *models.Spa) (string, error)
}

type Handler struct {
	*camunda.JobRunner[Input, Output]
	spas      SpaReader
	directory Directory
	logger    logger.Logger
}

func NewHandler(config *Config, spas SpaReader, dir Directory, log logger.Logger, obs *observability.Observability) *Handler {
	h := &Handler{
		spas:      spas,
		directory: dir,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
	h.JobRunner = camunda.NewJobRunner(TaskType, config.Timeout, h.Execute, log, obs)
	return h
}

// Execute brings the directory entry of one spa in line with its committed status.
// It reads the current row, so running it twice or out of order converges.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.SpaID <= 0 {
		return nil, apperrors.NewValidationError("invalid spa id",
			apperrors.FieldError{Field: "spaId", Message: "must be a positive integer"})
	}

	spa, err := h.spas.GetSpa(ctx, input.SpaID)
	if err != nil {
		return nil, err
	}

	action, err := h.directory.Sync(ctx, spa)
	if err != nil {
		return nil, err
	}

	h.logger.Info("Spa directory synced", map[string]interface{}{
		"spaId":  spa.ID,
		"status": spa.Status,
		"action": action,
	})
	return &Output{SpaID: spa.ID, Status: spa.Status, Action: action}, nil
}
