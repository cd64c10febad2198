// internal/workers/therapist/resubmit-therapist/models.go
package resubmittherapist

import "spa-registry/internal/models"

type Input struct {
	TherapistID   int64                     `json:"therapistId"`
	SpaID         int64                     `json:"spaId"`
	UpdatedFields models.TherapistFields    `json:"updatedFields"`
	FilePaths     models.TherapistDocuments `json:"filePaths"`
}

type Output struct {
	TherapistID int64  `json:"therapistId"`
	Status      string `json:"status"`
}
