// internal/workers/therapist/reject-therapist/models.go
package rejecttherapist

type Input struct {
	TherapistID int64  `json:"therapistId"`
	Reason      string `json:"reason"`
	ReviewedBy  string `json:"reviewedBy"`
}

type Output struct {
	TherapistID    int64  `json:"therapistId"`
	PreviousStatus string `json:"previousStatus"`
	Status         string `json:"status"`
}
