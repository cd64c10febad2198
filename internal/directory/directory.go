// Package directory maintains the public listing of verified spas in Elasticsearch.
// It is written after the lifecycle transaction commits and is never part of it.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "spa-registry/internal/common/errors"
	"spa-registry/internal/common/logger"
	"spa-registry/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Sync outcomes.
const (
	ActionIndexed = "indexed"
	ActionRemoved = "removed"
	ActionSkipped = "skipped"
)

const maxSearchSize = 100

// Entry is the public projection of a verified spa.
type Entry struct {
	SpaID           int64      `json:"spaId"`
	ReferenceNumber string     `json:"referenceNumber"`
	Name            string     `json:"name"`
	District        string     `json:"district,omitempty"`
	Address         string     `json:"address,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Email           string     `json:"email"`
	VerifiedAt      *time.Time `json:"verifiedAt,omitempty"`
}

// EntryFromSpa projects the public fields of a spa.
func EntryFromSpa(s *models.Spa) Entry {
	return Entry{
		SpaID:           s.ID,
		ReferenceNumber: s.ReferenceNumber,
		Name:            s.Name,
		District:        s.District,
		Address:         s.Address,
		Phone:           s.Phone,
		Email:           s.Email,
		VerifiedAt:      s.VerifiedAt,
	}
}

// SearchRequest asks the directory for verified spas.
type SearchRequest struct {
	Keywords string `json:"keywords,omitempty"`
	District string `json:"district,omitempty"`
	From     int    `json:"from,omitempty"`
	Size     int    `json:"size,omitempty"`
}

type SearchResult struct {
	Entries   []Entry `json:"entries"`
	TotalHits int64   `json:"totalHits"`
	Took      int64   `json:"took"`
}

// Directory reads and writes the spa directory index.
type Directory struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func New(client *elasticsearch.Client, index string, log logger.Logger) *Directory {
	return &Directory{client: client, index: index, logger: log}
}

// Sync brings the directory in line with the spa's current status: verified spas are
// indexed, every other status is removed. Repeating a sync is harmless.
func (d *Directory) Sync(ctx context.Context, s *models.Spa) (string, error) {
	if s.Status == models.SpaStatusVerified {
		return ActionIndexed, d.Index(ctx, EntryFromSpa(s))
	}
	removed, err := d.Remove(ctx, s.ID)
	if err != nil {
		return "", err
	}
	if !removed {
		return ActionSkipped, nil
	}
	return ActionRemoved, nil
}

// Index upserts an entry keyed by spa id.
func (d *Directory) Index(ctx context.Context, e Entry) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode directory entry: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      d.index,
		DocumentID: strconv.FormatInt(e.SpaID, 10),
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, d.client)
	if err != nil {
		return apperrors.NewUnavailableError("spa directory", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError(fmt.Sprintf("index spa %d", e.SpaID), res)
	}

	d.logger.Info("spa indexed in directory", map[string]interface{}{
		"spaId": e.SpaID,
		"index": d.index,
	})
	return nil
}

// Remove deletes a spa's entry. It reports false when there was nothing to delete.
func (d *Directory) Remove(ctx context.Context, spaID int64) (bool, error) {
	req := esapi.DeleteRequest{
		Index:      d.index,
		DocumentID: strconv.FormatInt(spaID, 10),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, d.client)
	if err != nil {
		return false, apperrors.NewUnavailableError("spa directory", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if res.IsError() {
		return false, responseError(fmt.Sprintf("remove spa %d", spaID), res)
	}

	d.logger.Info("spa removed from directory", map[string]interface{}{
		"spaId": spaID,
		"index": d.index,
	})
	return true, nil
}

// Search runs a keyword/district query. A missing index yields an empty result.
func (d *Directory) Search(ctx context.Context, sr SearchRequest) (*SearchResult, error) {
	from, size := sr.From, sr.Size
	if from < 0 {
		from = 0
	}
	if size <= 0 {
		size = 20
	}
	if size > maxSearchSize {
		size = maxSearchSize
	}

	body, err := json.Marshal(buildSearchQuery(sr))
	if err != nil {
		return nil, fmt.Errorf("encode directory query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{d.index},
		Body:  bytes.NewReader(body),
		From:  &from,
		Size:  &size,
	}
	res, err := req.Do(ctx, d.client)
	if err != nil {
		return nil, apperrors.NewUnavailableError("spa directory", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return &SearchResult{Entries: []Entry{}}, nil
	}
	if res.IsError() {
		return nil, responseError("search directory", res)
	}

	var r struct {
		Took int64 `json:"took"`
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source Entry `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode directory response: %w", err)
	}

	result := &SearchResult{
		Entries:   make([]Entry, 0, len(r.Hits.Hits)),
		TotalHits: r.Hits.Total.Value,
		Took:      r.Took,
	}
	for _, h := range r.Hits.Hits {
		result.Entries = append(result.Entries, h.Source)
	}
	return result, nil
}

// responseError treats server-side failures as retryable outages.
func responseError(op string, res *esapi.Response) error {
	err := fmt.Errorf("%s: %s", op, res.String())
	if res.StatusCode >= http.StatusInternalServerError {
		return apperrors.NewUnavailableError("spa directory", err)
	}
	return err
}

func buildSearchQuery(sr SearchRequest) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if kw := strings.TrimSpace(sr.Keywords); kw != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  kw,
				"fields": []string{"name^3", "address", "district"},
				"type":   "best_fields",
			},
		})
	}
	if district := strings.TrimSpace(sr.District); district != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"district.keyword": district},
		})
	}
	if len(must) == 0 {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery := map[string]interface{}{"must": must}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}
	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort":  []interface{}{"_score", map[string]interface{}{"spaId": "asc"}},
	}
}
