// internal/workers/therapist/resign-therapist/models.go
package resigntherapist

type Input struct {
	TherapistID int64 `json:"therapistId"`
	SpaID       int64 `json:"spaId"`
}

type Output struct {
	TherapistID   int64  `json:"therapistId"`
	Status        string `json:"status"`
	ResignDate    string `json:"resignDate"` // YYYY-MM-DD
	HistoryClosed bool   `json:"historyClosed"`
}
