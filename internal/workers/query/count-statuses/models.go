// internal/workers/query/count-statuses/models.go
package countstatuses

type Input struct {
	EntityType string `json:"entityType"`
}

type Output struct {
	EntityType string         `json:"entityType"`
	Counts     map[string]int `json:"counts"`
	Total      int            `json:"total"`
}
