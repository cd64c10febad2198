package resubmitspa

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

type fakeService struct {
	spaID  int64
	fields models.SpaFields
	docs   models.SpaDocuments
	err    error
}

func (f *fakeService) ResubmitSpa(_ context.Context, spaID int64, fields models.SpaFields, docs models.SpaDocuments) (*registration.Outcome, error) {
	f.spaID, f.fields, f.docs = spaID, fields, docs
	if f.err != nil {
		return nil, f.err
	}
	return &registration.Outcome{EntityType: "spa", EntityID: spaID, PreviousStatus: "rejected", Status: "pending"}, nil
}

func TestRun_Resubmits(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(LoadConfig(), svc, logger.NewTestLogger(t), observability.Noop())

	out, err := h.Run(context.Background(), `{
		"spaId": 7,
		"updatedFields": {"name": "Lotus Spa & Wellness", "email": "lotus@example.lk"},
		"filePaths": {"facilityPhotos": ["uploads/new.jpg"]}
	}`)
	require.NoError(t, err)

	assert.Equal(t, &Output{SpaID: 7, Status: "pending"}, out)
	assert.Equal(t, "Lotus Spa & Wellness", svc.fields.Name)
	assert.Equal(t, []string{"uploads/new.jpg"}, svc.docs.FacilityPhotos)
	assert.Nil(t, svc.docs.CertificateDocs)
}

func TestExecute_NotRejected(t *testing.T) {
	svc := &fakeService{err: apperrors.NewInvalidTransitionError("spa", 7, "cannot resubmit from verified")}
	h := NewHandler(LoadConfig(), svc, logger.NewTestLogger(t), observability.Noop())

	_, err := h.Execute(context.Background(), &Input{SpaID: 7})
	assert.True(t, stderrors.Is(err, apperrors.ErrInvalidTransition))
}

func TestExecute_MissingSpaID(t *testing.T) {
	h := NewHandler(LoadConfig(), &fakeService{}, logger.NewTestLogger(t), observability.Noop())

	_, err := h.Execute(context.Background(), &Input{})
	assert.True(t, stderrors.Is(err, apperrors.ErrValidation))
}
