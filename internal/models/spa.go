// internal/models/spa.go
package models

import "time"

const (
	EntitySpa       = "spa"
	EntityTherapist = "therapist"
)

const (
	SpaStatusPending     = "pending"
	SpaStatusVerified    = "verified"
	SpaStatusRejected    = "rejected"
	SpaStatusBlacklisted = "blacklisted"
)

const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// Spa is a registered business under review by the authority.
type Spa struct {
	ID              int64   `json:"id"`
	ReferenceNumber string  `json:"referenceNumber"`
	Name            string  `json:"name"`
	OwnerName       string  `json:"ownerName,omitempty"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone,omitempty"`
	Address         string  `json:"address,omitempty"`
	District        string  `json:"district,omitempty"`
	Status          string  `json:"status"`
	RejectReason    *string `json:"rejectReason,omitempty"`

	VerifiedAt      *time.Time `json:"verifiedAt,omitempty"`
	VerifiedBy      *string    `json:"verifiedBy,omitempty"`
	BlacklistReason *string    `json:"blacklistReason,omitempty"`
	BlacklistedAt   *time.Time `json:"blacklistedAt,omitempty"`
	BlacklistedBy   *string    `json:"blacklistedBy,omitempty"`

	PaymentStatus    string  `json:"paymentStatus"`
	PaymentReference *string `json:"paymentReference,omitempty"`

	CertificateDocs []string `json:"certificateDocs"`
	FacilityPhotos  []string `json:"facilityPhotos"`
	SupportingDocs  []string `json:"supportingDocs"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SpaFields are the editable registration fields, used on submission and resubmission.
type SpaFields struct {
	Name      string `json:"name"`
	OwnerName string `json:"ownerName,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	District  string `json:"district,omitempty"`
}

// SpaDocuments holds already-stored file paths grouped by category.
type SpaDocuments struct {
	CertificateDocs []string `json:"certificateDocs,omitempty"`
	FacilityPhotos  []string `json:"facilityPhotos,omitempty"`
	SupportingDocs  []string `json:"supportingDocs,omitempty"`
}

// Empty reports whether no category carries a path.
func (d SpaDocuments) Empty() bool {
	return len(d.CertificateDocs) == 0 && len(d.FacilityPhotos) == 0 && len(d.SupportingDocs) == 0
}
