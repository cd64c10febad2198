// internal/workers/query/list-therapists/models.go
package listtherapists

import "spa-registry/internal/models"

// Input takes either a filter object or the older bare status. Filters win when both are set.
type Input struct {
	Filters map[string]interface{} `json:"filters,omitempty"`
	Status  string                 `json:"status,omitempty"`
	Page    int                    `json:"page,omitempty"`
	Limit   int                    `json:"limit,omitempty"`
}

type Output struct {
	Therapists []models.Therapist `json:"therapists"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"totalPages"`
}
