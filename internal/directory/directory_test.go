package directory

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	apperrors "spa-registry/internal/common/errors"
	"spa-registry/internal/common/logger"
	"spa-registry/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// fakeCluster answers like an Elasticsearch node and records every request.
type fakeCluster struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{r.Method, r.URL.Path, r.URL.RawQuery, string(body)})
	status, resp := f.status, f.body
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(resp))
}

func (f *fakeCluster) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestDirectory(t *testing.T, status int, body string) (*Directory, *fakeCluster) {
	t.Helper()
	fake := &fakeCluster{status: status, body: body}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return New(es, "spa_directory", logger.NewTestLogger(t)), fake
}

func verifiedSpa() *models.Spa {
	return &models.Spa{
		ID:              7,
		ReferenceNumber: "SPA-1A2B3C4D",
		Name:            "Lotus Spa",
		Email:           "lotus@example.lk",
		District:        "Colombo",
		Status:          models.SpaStatusVerified,
	}
}

func TestSync_IndexesVerifiedSpa(t *testing.T) {
	d, fake := newTestDirectory(t, http.StatusCreated, `{"result":"created"}`)

	action, err := d.Sync(context.Background(), verifiedSpa())
	require.NoError(t, err)
	assert.Equal(t, ActionIndexed, action)

	req := fake.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/spa_directory/_doc/7", req.Path)

	var entry Entry
	require.NoError(t, json.Unmarshal([]byte(req.Body), &entry))
	assert.Equal(t, "Lotus Spa", entry.Name)
	assert.Equal(t, int64(7), entry.SpaID)
}

func TestSync_RemovesBlacklistedSpa(t *testing.T) {
	d, fake := newTestDirectory(t, http.StatusOK, `{"result":"deleted"}`)

	s := verifiedSpa()
	s.Status = models.SpaStatusBlacklisted
	action, err := d.Sync(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, ActionRemoved, action)

	req := fake.last()
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/spa_directory/_doc/7", req.Path)
}

func TestSync_RemoveOfMissingEntryIsSkipped(t *testing.T) {
	d, _ := newTestDirectory(t, http.StatusNotFound, `{"result":"not_found"}`)

	s := verifiedSpa()
	s.Status = models.SpaStatusRejected
	action, err := d.Sync(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, ActionSkipped, action)
}

func TestIndex_ServerError(t *testing.T) {
	d, _ := newTestDirectory(t, http.StatusInternalServerError, `{"error":"boom"}`)

	err := d.Index(context.Background(), EntryFromSpa(verifiedSpa()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index spa 7")
	assert.True(t, stderrors.Is(err, apperrors.ErrUnavailable))
}

func TestSearch_DecodesHits(t *testing.T) {
	d, fake := newTestDirectory(t, http.StatusOK, `{
		"took": 3,
		"hits": {
			"total": {"value": 1},
			"hits": [{"_source": {"spaId": 7, "name": "Lotus Spa", "email": "lotus@example.lk", "district": "Colombo"}}]
		}
	}`)

	res, err := d.Search(context.Background(), SearchRequest{Keywords: "lotus", District: "Colombo", Size: 500})
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, int64(1), res.TotalHits)
	assert.Equal(t, int64(3), res.Took)
	assert.Equal(t, "Lotus Spa", res.Entries[0].Name)

	req := fake.last()
	assert.Equal(t, "/spa_directory/_search", req.Path)
	assert.Contains(t, req.Query, "size=100")
	assert.Contains(t, req.Body, `"multi_match"`)
	assert.Contains(t, req.Body, `"district.keyword":"Colombo"`)
}

func TestSearch_MissingIndexIsEmpty(t *testing.T) {
	d, _ := newTestDirectory(t, http.StatusNotFound, `{"error":{"type":"index_not_found_exception"}}`)

	res, err := d.Search(context.Background(), SearchRequest{})
	require.NoError(t, err)
	assert.Empty(t, res.Entries)
	assert.Zero(t, res.TotalHits)
}

func TestBuildSearchQuery_MatchAllWithoutKeywords(t *testing.T) {
	q := buildSearchQuery(SearchRequest{})
	raw, err := json.Marshal(q)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), `"match_all":{}`))
	assert.False(t, strings.Contains(string(raw), `"filter"`))
}
