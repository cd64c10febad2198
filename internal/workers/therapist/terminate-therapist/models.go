// internal/workers/therapist/terminate-therapist/models.go
package terminatetherapist

type Input struct {
	TherapistID int64  `json:"therapistId"`
	SpaID       int64  `json:"spaId"`
	Reason      string `json:"reason,omitempty"`
}

type Output struct {
	TherapistID   int64  `json:"therapistId"`
	Status        string `json:"status"`
	TerminatedAt  string `json:"terminatedAt"` // RFC 3339
	HistoryClosed bool   `json:"historyClosed"`
}
