package searchspadirectory

import (
	"context"
	"testing"

	"spa-registry/internal/common/logger"
	"spa-registry/internal/common/observability"
	"spa-registry/internal/directory"
	"spa-registry/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	got directory.SearchRequest
}

func (f *fakeSearcher) Search(_ context.Context, sr directory.SearchRequest) (*directory.SearchResult, error) {
	f.got = sr
	return &directory.SearchResult{
		Entries:   []directory.Entry{{SpaID: 5, Name: "Lotus Spa", District: "Colombo"}},
		TotalHits: 31,
		Took:      4,
	}, nil
}

func TestRun_PageToOffset(t *testing.T) {
	s := &fakeSearcher{}
	h := NewHandler(LoadConfig(), s, query.DefaultLimits, logger.NewTestLogger(t), observability.Noop())

	out, err := h.Run(context.Background(), `{"keywords": " lotus ", "district": "Colombo", "page": 3, "limit": 10}`)
	require.NoError(t, err)

	assert.Equal(t, directory.SearchRequest{Keywords: "lotus", District: "Colombo", From: 20, Size: 10}, s.got)
	assert.Equal(t, int64(31), out.Total)
	assert.Equal(t, 3, out.Page)
	assert.Len(t, out.Spas, 1)
}

func TestRun_LimitIsClamped(t *testing.T) {
	s := &fakeSearcher{}
	h := NewHandler(LoadConfig(), s, query.Limits{Default: 20, Max: 50}, logger.NewTestLogger(t), observability.Noop())

	_, err := h.Run(context.Background(), `{"limit": 500}`)
	require.NoError(t, err)
	assert.Equal(t, 50, s.got.Size)
	assert.Equal(t, 0, s.got.From)
}
