package listspas

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
	spec  query.FilterSpec
	page  int
	limit int
	items []models.Spa
	total int
}

func (f *fakeService) ListSpas(_ context.Context, spec query.FilterSpec, page, limit int) (*query.Page[models.Spa], error) {
	f.spec, f.page, f.limit = spec, page, limit
	pg := query.NewPagination(page, limit, query.DefaultLimits)
	return &query.Page[models.Spa]{
		Items:      f.items,
		Total:      f.total,
		Page:       pg.Page,
		Limit:      pg.Limit,
		TotalPages: query.TotalPages(f.total, pg.Limit),
	}, nil
}

func TestRun_ParsesFilters(t *testing.T) {
	svc := &fakeService{items: []models.Spa{{ID: 3, Name: "Lotus Spa", Status: "pending"}}, total: 23}
	h := NewHandler(LoadConfig(), svc, logger.NewTestLogger(t), observability.Noop())

	out, err := h.Run(context.Background(), `{
		"filters": {"status": "pending", "district": "Colombo", "spa_id": 4, "sort": "name"},
		"page": 2,
		"limit": 10
	}`)
	require.NoError(t, err)

	assert.Equal(t, "pending", svc.spec.Status)
	assert.Equal(t, "Colombo", svc.spec.District)
	require.NotNil(t, svc.spec.SpaID)
	assert.Equal(t, int64(4), *svc.spec.SpaID)
	assert.Equal(t, 2, svc.page)
	assert.Equal(t, 10, svc.limit)

	assert.Len(t, out.Spas, 1)
	assert.Equal(t, 23, out.Total)
	assert.Equal(t, 3, out.TotalPages)
}

func TestRun_EmptyPageIsNotNil(t *testing.T) {
	h := NewHandler(LoadConfig(), &fakeService{}, logger.NewTestLogger(t), observability.Noop())

	out, err := h.Run(context.Background(), `{}`)
	require.NoError(t, err)
	assert.NotNil(t, out.Spas)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 20, out.Limit)
	assert.Equal(t, 0, out.TotalPages)
}
