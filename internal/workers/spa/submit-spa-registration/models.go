// internal/workers/spa/submit-spa-registration/models.go
package submitsparegistration

import "spa-registry/internal/models"

type Input struct {
	Fields    models.SpaFields    `json:"fields"`
	FilePaths models.SpaDocuments `json:"filePaths"`
}

type Output struct {
	SpaID           int64  `json:"spaId"`
	ReferenceNumber string `json:"referenceNumber"`
	Status          string `json:"status"`
}
