package resubmittherapist

import (
	"context"
	stderrors "errors"
	"testing"

	apperrors "spa-registry/internal/common/errors"
	"spa-registry/internal/common/logger"
	"spa-registry/internal/common/observability"
	"spa-registry/internal/models"
	"spa-registry/internal/registration"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService models the rejected -> pending round trip of one therapist.
type fakeService struct {
	status string
	fields models.TherapistFields
}

func (f *fakeService) ResubmitTherapist(_ context.Context, id, _ int64, fields models.TherapistFields, _ models.TherapistDocuments) (*registration.Outcome, error) {
	if f.status != "rejected" {
		return nil, apperrors.NewInvalidTransitionError("therapist", id, "cannot resubmit from "+f.status)
	}
	prev := f.status
	f.status = "pending"
	f.fields = fields
	return &registration.Outcome{EntityType: "therapist", EntityID: id, PreviousStatus: prev, Status: f.status}, nil
}

func TestRun_ResubmitOnlyOnce(t *testing.T) {
	svc := &fakeService{status: "rejected"}
	h := NewHandler(LoadConfig(), svc, logger.NewTestLogger(t), observability.Noop())

	vars := `{"therapistId": 9, "spaId": 7, "updatedFields": {"firstName": "Amali", "lastName": "Perera", "nic": "199012345679"}}`
	out, err := h.Run(context.Background(), vars)
	require.NoError(t, err)
	assert.Equal(t, &Output{TherapistID: 9, Status: "pending"}, out)
	assert.Equal(t, "199012345679", svc.fields.NIC)

	_, err = h.Run(context.Background(), vars)
	assert.True(t, stderrors.Is(err, apperrors.ErrInvalidTransition))
}

func TestExecute_RequiresSpa(t *testing.T) {
	h := NewHandler(LoadConfig(), &fakeService{status: "rejected"}, logger.NewTestLogger(t), observability.Noop())

	_, err := h.Execute(context.Background(), &Input{TherapistID: 9})
	assert.True(t, stderrors.Is(err, apperrors.ErrValidation))
}
