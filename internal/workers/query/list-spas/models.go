// internal/workers/query/list-spas/models.go
package listspas

import "spa-registry/internal/models"

type Input struct {
	Filters map[string]interface{} `json:"filters,omitempty"`
	Page    int                    `json:"page,omitempty"`
	Limit   int                    `json:"limit,omitempty"`
}

type Output struct {
	Spas       []models.Spa `json:"spas"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalPages int          `json:"totalPages"`
}
