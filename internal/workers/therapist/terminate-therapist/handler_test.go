package terminatetherapist

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	apperrors "spa-registry/internal/common/errors"
	"spa-registry/internal/common/logger"
	"spa-registry/internal/common/observability"
	"spa-registry/internal/registration"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	reason string
	err    error
}

func (f *fakeService) TerminateTherapist(_ context.Context, id, _ int64, reason string) (*registration.Outcome, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.reason = reason
	return &registration.Outcome{
		EntityType: "therapist",
		EntityID:   id,
		Status:     "terminated",
		At:         time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC),
	}, nil
}

func TestRun_ReasonIsOptional(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(LoadConfig(), svc, logger.NewTestLogger(t), observability.Noop())

	out, err := h.Run(context.Background(), `{"therapistId": 9, "spaId": 7}`)
	require.NoError(t, err)
	assert.Equal(t, "terminated", out.Status)
	assert.Equal(t, "2024-06-01T09:30:00Z", out.TerminatedAt)
	assert.False(t, out.HistoryClosed)
	assert.Empty(t, svc.reason)
}

func TestRun_TransactionFailureIsRetryable(t *testing.T) {
	svc := &fakeService{err: apperrors.NewTransactionError("terminate_therapist: commit", stderrors.New("connection reset"))}
	h := NewHandler(LoadConfig(), svc, logger.NewTestLogger(t), observability.Noop())

	_, err := h.Run(context.Background(), `{"therapistId": 9, "spaId": 7, "reason": "Misconduct"}`)
	assert.True(t, apperrors.IsRetryable(err))
}
