// internal/workers/directory/search-spa-directory/handler.go
package searchspadirectory

import (
	"context"
	"strings"

	"spa-registry/internal/common/camunda"
	"spa-registry/internal/common/logger"
	"spa-registry/internal/common/observability"
	"spa-registry/internal/directory"
	"spa-registry/internal/query"
)

const (
	TaskType = "search-spa-directory"
)

type Searcher interface {
	Search(ctx context.Context, sr directory.SearchRequest) (*directory.SearchResult, error)
}

type Handler struct {
	*camunda.JobRunner[Input, Output]
	searcher Searcher
	limits   query.Limits
	logger   logger.Logger
}

func NewHandler(config *Config, searcher Searcher, limits query.Limits, log logger.Logger, obs *observability.Observability) *Handler {
	h := &Handler{
		searcher: searcher,
		limits:   limits,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
	h.JobRunner = camunda.NewJobRunner(TaskType, config.Timeout, h.Execute, log, obs)
	return h
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	pg := query.NewPagination(input.Page, input.Limit, h.limits)

	res, err := h.searcher.Search(ctx, directory.SearchRequest{
		Keywords: strings.TrimSpace(input.Keywords),
		District: strings.TrimSpace(input.District),
		From:     pg.Offset(),
		Size:     pg.Limit,
	})
	if err != nil {
		return nil, err
	}

	entries := res.Entries
	if entries == nil {
		entries = []directory.Entry{}
	}
	return &Output{
		Spas:       entries,
		Total:      res.TotalHits,
		Page:       pg.Page,
		Limit:      pg.Limit,
		SearchTook: res.Took,
	}, nil
}
