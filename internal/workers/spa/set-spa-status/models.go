// internal/workers/spa/set-spa-status/models.go
package setspastatus

type Input struct {
	SpaID      int64  `json:"spaId"`
	Status     string `json:"status"` // verified (or approved), rejected, blacklisted
	Reason     string `json:"reason,omitempty"`
	VerifiedBy string `json:"verifiedBy,omitempty"`
}

type Output struct {
	SpaID          int64  `json:"spaId"`
	PreviousStatus string `json:"previousStatus"`
	Status         string `json:"status"`
	UpdatedAt      string `json:"updatedAt"` // RFC 3339
}
