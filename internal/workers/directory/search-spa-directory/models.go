// internal/workers/directory/search-spa-directory/models.go
package searchspadirectory

import "spa-registry/internal/directory"

type Input struct {
	Keywords string `json:"keywords,omitempty"`
	District string `json:"district,omitempty"`
	Page     int    `json:"page,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type Output struct {
	Spas       []directory.Entry `json:"spas"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	SearchTook int64             `json:"searchTookMs"`
}
