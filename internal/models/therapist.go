// internal/models/therapist.go
package models

import "time"

const (
	TherapistStatusPending    = "pending"
	TherapistStatusApproved   = "approved"
	TherapistStatusRejected   = "rejected"
	TherapistStatusResigned   = "resigned"
	TherapistStatusTerminated = "terminated"
	TherapistStatusSuspended  = "suspended"
)

const (
	RequestTypeAdd      = "add"
	RequestTypeResubmit = "resubmit"

	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// Therapist is a staff member registered under a spa.
type Therapist struct {
	ID                int64      `json:"id"`
	SpaID             int64      `json:"spaId"`
	ReferenceNumber   string     `json:"referenceNumber"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	NIC               string     `json:"nic,omitempty"`
	Email             string     `json:"email,omitempty"`
	Phone             string     `json:"phone,omitempty"`
	Address           string     `json:"address,omitempty"`
	Specialization    string     `json:"specialization,omitempty"`
	Status            string     `json:"status"`
	RejectReason      *string    `json:"rejectReason,omitempty"`
	ApprovedDate      *time.Time `json:"approvedDate,omitempty"`
	ResignDate        *time.Time `json:"resignDate,omitempty"`
	TerminatedAt      *time.Time `json:"terminatedAt,omitempty"`
	TerminationReason *string    `json:"terminationReason,omitempty"`

	// WorkingHistory is the parsed view; WorkingHistoryRaw is the stored text and
	// is what transitions rewrite.
	WorkingHistory    []HistoryEntry `json:"workingHistory"`
	WorkingHistoryRaw *string        `json:"-"`

	NICDocs      []string `json:"nicDocs"`
	MedicalDocs  []string `json:"medicalDocs"`
	ProfilePhoto string   `json:"profilePhoto,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FullName joins first and last name.
func (t *Therapist) FullName() string {
	if t.LastName == "" {
		return t.FirstName
	}
	return t.FirstName + " " + t.LastName
}

// TherapistFields are the editable therapist fields.
type TherapistFields struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	NIC            string `json:"nic,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

// TherapistDocuments holds already-stored file paths grouped by category.
type TherapistDocuments struct {
	NICDocs      []string `json:"nicDocs,omitempty"`
	MedicalDocs  []string `json:"medicalDocs,omitempty"`
	ProfilePhoto []string `json:"profilePhoto,omitempty"`
}

// Empty reports whether no category carries a path.
func (d TherapistDocuments) Empty() bool {
	return len(d.NICDocs) == 0 && len(d.MedicalDocs) == 0 && len(d.ProfilePhoto) == 0
}

// TherapistRequest links a therapist to one review round.
type TherapistRequest struct {
	ID              int64      `json:"id"`
	TherapistID     int64      `json:"therapistId"`
	SpaID           int64      `json:"spaId"`
	RequestType     string     `json:"requestType"`
	RequestStatus   string     `json:"requestStatus"`
	SpaNotes        *string    `json:"spaNotes,omitempty"`
	ResponseMessage *string    `json:"responseMessage,omitempty"`
	ResponseDate    *time.Time `json:"responseDate,omitempty"`
	RespondedBy     *string    `json:"respondedBy,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}
