// internal/workers/directory/sync-spa-directory/models.go
package syncspadirectory

type Input struct {
	SpaID int64 `json:"spaId"`
}

type Output struct {
	SpaID  int64  `json:"spaId"`
	Status string `json:"status"`
	Action string `json:"directoryAction"` // indexed, removed or skipped
}
