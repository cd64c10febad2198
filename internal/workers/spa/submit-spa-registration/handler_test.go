package submitsparegistration

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
	fields models.SpaFields
	docs   models.SpaDocuments
	err    error
}

func (f *fakeService) SubmitSpaRegistration(_ context.Context, fields models.SpaFields, docs models.SpaDocuments) (*registration.Submission, error) {
	f.fields, f.docs = fields, docs
	if f.err != nil {
		return nil, f.err
	}
	return &registration.Submission{ID: 5, ReferenceNumber: "SPA-1A2B3C4D", Status: models.SpaStatusPending}, nil
}

func newTestHandler(t *testing.T, svc Service) *Handler {
	return NewHandler(LoadConfig(), svc, logger.NewTestLogger(t), observability.Noop())
}

func TestRun_DecodesVariablesAndIgnoresUnknownCategories(t *testing.T) {
	svc := &fakeService{}
	h := newTestHandler(t, svc)

	out, err := h.Run(context.Background(), `{
		"fields": {"name": "Lotus Spa", "email": "lotus@example.lk", "district": "Colombo"},
		"filePaths": {"certificateDocs": ["uploads/cert.pdf"], "selfie": ["uploads/me.jpg"]}
	}`)
	require.NoError(t, err)

	assert.Equal(t, int64(5), out.SpaID)
	assert.Equal(t, "SPA-1A2B3C4D", out.ReferenceNumber)
	assert.Equal(t, "pending", out.Status)
	assert.Equal(t, "Lotus Spa", svc.fields.Name)
	assert.Equal(t, []string{"uploads/cert.pdf"}, svc.docs.CertificateDocs)
	assert.Empty(t, svc.docs.FacilityPhotos)
}

func TestRun_PropagatesValidationError(t *testing.T) {
	h := newTestHandler(t, &fakeService{err: apperrors.NewValidationError("invalid spa registration",
		apperrors.FieldError{Field: "name", Message: "is required"})})

	_, err := h.Run(context.Background(), `{"fields": {"email": "lotus@example.lk"}}`)
	assert.True(t, stderrors.Is(err, apperrors.ErrValidation))
}

func TestRun_BadVariables(t *testing.T) {
	h := newTestHandler(t, &fakeService{})

	_, err := h.Run(context.Background(), `{"fields": 42}`)
	assert.Equal(t, apperrors.ErrCodeParse, apperrors.CodeOf(err))
	assert.Equal(t, TaskType, h.TaskType())
}
