// internal/workers/spa/resubmit-spa/models.go
package resubmitspa

import "spa-registry/internal/models"

type Input struct {
	SpaID         int64               `json:"spaId"`
	UpdatedFields models.SpaFields    `json:"updatedFields"`
	FilePaths     models.SpaDocuments `json:"filePaths"`
}

type Output struct {
	SpaID  int64  `json:"spaId"`
	Status string `json:"status"`
}
