package listtherapists

import (
	"context"
	"testing"

	"spa-registry/internal/common/logger"
	"spa-registry/internal/common/observability"
	"spa-registry/internal/models"
	"spa-registry/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	spec query.FilterSpec
}

func (f *fakeService) ListTherapists(_ context.Context, spec query.FilterSpec, page, limit int) (*query.Page[models.Therapist], error) {
	f.spec = spec
	pg := query.NewPagination(page, limit, query.DefaultLimits)
	return &query.Page[models.Therapist]{Page: pg.Page, Limit: pg.Limit}, nil
}

func TestRun_FilterObject(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(LoadConfig(), svc, logger.NewTestLogger(t), observability.Noop())

	_, err := h.Run(context.Background(), `{"filters": {"verification_status": "rejected", "district": "Kandy", "spa_id": "7"}}`)
	require.NoError(t, err)

	assert.Equal(t, "rejected", svc.spec.VerificationStatus)
	assert.Equal(t, "Kandy", svc.spec.District)
	require.NotNil(t, svc.spec.SpaID)
	assert.Equal(t, int64(7), *svc.spec.SpaID)
}

func TestRun_LegacyStatus(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(LoadConfig(), svc, logger.NewTestLogger(t), observability.Noop())

	out, err := h.Run(context.Background(), `{"status": " approved "}`)
	require.NoError(t, err)
	assert.Equal(t, query.FilterSpec{Status: "approved"}, svc.spec)
	assert.NotNil(t, out.Therapists)
}

func TestRun_FiltersWinOverStatus(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(LoadConfig(), svc, logger.NewTestLogger(t), observability.Noop())

	_, err := h.Run(context.Background(), `{"status": "approved", "filters": {"status": "pending"}}`)
	require.NoError(t, err)
	assert.Equal(t, "pending", svc.spec.Status)
}
