// internal/workers/therapist/approve-therapist/models.go
package approvetherapist

type Input struct {
	TherapistID int64  `json:"therapistId"`
	ReviewedBy  string `json:"reviewedBy"`
}

type Output struct {
	TherapistID    int64  `json:"therapistId"`
	PreviousStatus string `json:"previousStatus"`
	Status         string `json:"status"`
}
