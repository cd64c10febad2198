// internal/workers/therapist/submit-therapist/models.go
package submittherapist

import "spa-registry/internal/models"

type Input struct {
	SpaID     int64                     `json:"spaId"`
	Fields    models.TherapistFields    `json:"fields"`
	FilePaths models.TherapistDocuments `json:"filePaths"`
}

type Output struct {
	TherapistID     int64  `json:"therapistId"`
	ReferenceNumber string `json:"referenceNumber"`
	Status          string `json:"status"`
}
