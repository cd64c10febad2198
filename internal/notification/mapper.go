// Package notification maps logical recipients and categories onto the canonical
// values stored in the notifications table.
package notification

import (
	"strings"

	apperrors "spa-registry/internal/common/errors"
)

// Canonical recipient types.
const (
	RecipientAdminLSA  = "admin_lsa"
	RecipientSpa       = "spa"
	RecipientTherapist = "therapist"
)

// Canonical notification categories.
const (
	CategoryRegistrationSubmitted   = "registration_submitted"
	CategoryRegistrationApproved    = "registration_approved"
	CategoryRegistrationRejected    = "registration_rejected"
	CategoryRegistrationResubmitted = "registration_resubmitted"
	CategorySpaBlacklisted          = "spa_blacklisted"
	CategoryTherapistRequest        = "therapist_request"
	CategoryTherapistApproved       = "therapist_approved"
	CategoryTherapistRejected       = "therapist_rejected"
	CategoryTherapistResubmitted    = "therapist_resubmitted"
	CategoryTherapistResigned       = "therapist_resigned"
	CategoryTherapistTerminated     = "therapist_terminated"
	CategorySystemAlert             = "system_alert"
)

// Display types.
const (
	TypeInfo    = "info"
	TypeSuccess = "success"
	TypeWarning = "warning"
	TypeError   = "error"
)

// Safe defaults used when an input is not recognized.
const (
	DefaultRecipient = RecipientAdminLSA
	DefaultCategory  = CategorySystemAlert
)

var recipientAliases = map[string]string{
	"lsa":       RecipientAdminLSA,
	"admin":     RecipientAdminLSA,
	"reviewer":  RecipientAdminLSA,
	"authority": RecipientAdminLSA,
	"admin_lsa": RecipientAdminLSA,
	"spa":       RecipientSpa,
	"spa_owner": RecipientSpa,
	"spa_admin": RecipientSpa,
	"owner":     RecipientSpa,
	"therapist": RecipientTherapist,
	"staff":     RecipientTherapist,
}

// categoryKey pairs a logical event with the entity it concerns.
type categoryKey struct {
	event   string
	context string
}

var categories = map[categoryKey]string{
	{"submitted", "spa"}:         CategoryRegistrationSubmitted,
	{"created", "spa"}:           CategoryRegistrationSubmitted,
	{"approved", "spa"}:          CategoryRegistrationApproved,
	{"verified", "spa"}:          CategoryRegistrationApproved,
	{"rejected", "spa"}:          CategoryRegistrationRejected,
	{"resubmitted", "spa"}:       CategoryRegistrationResubmitted,
	{"blacklisted", "spa"}:       CategorySpaBlacklisted,
	{"submitted", "therapist"}:   CategoryTherapistRequest,
	{"created", "therapist"}:     CategoryTherapistRequest,
	{"request", "therapist"}:     CategoryTherapistRequest,
	{"approved", "therapist"}:    CategoryTherapistApproved,
	{"rejected", "therapist"}:    CategoryTherapistRejected,
	{"resubmitted", "therapist"}: CategoryTherapistResubmitted,
	{"resigned", "therapist"}:    CategoryTherapistResigned,
	{"terminated", "therapist"}:  CategoryTherapistTerminated,
}

var canonicalCategories = map[string]struct{}{}

func init() {
	for _, c := range categories {
		canonicalCategories[c] = struct{}{}
	}
	canonicalCategories[CategorySystemAlert] = struct{}{}
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

// ResolveRecipient maps a logical role to its canonical recipient type, or
// returns a MappingError.
func ResolveRecipient(logicalRole string) (string, error) {
	if r, ok := recipientAliases[normalize(logicalRole)]; ok {
		return r, nil
	}
	return "", apperrors.NewMappingError("recipient", logicalRole)
}

// ResolveCategory maps a logical event within a domain context ("spa" or
// "therapist") to a canonical category, or returns a MappingError. A value that is
// already canonical resolves to itself.
func ResolveCategory(logicalCategory, domainContext string) (string, error) {
	event := normalize(logicalCategory)
	if c, ok := categories[categoryKey{event, normalize(domainContext)}]; ok {
		return c, nil
	}
	if _, ok := canonicalCategories[event]; ok {
		return event, nil
	}
	return "", apperrors.NewMappingError("notification category", logicalCategory+"/"+domainContext)
}

// MissReporter observes inputs that fell back to a default.
type MissReporter interface {
	MappingFallback(kind, value, fallback string)
}

// Mapper is the total form of the resolvers: unrecognized input never fails, it
// falls back to the safe default and is reported.
type Mapper struct {
	reporter MissReporter
}

// NewMapper returns a Mapper. reporter may be nil.
func NewMapper(reporter MissReporter) *Mapper {
	return &Mapper{reporter: reporter}
}

// MapRecipient never fails; unknown roles become admin_lsa.
func (m *Mapper) MapRecipient(logicalRole string) string {
	r, err := ResolveRecipient(logicalRole)
	if err != nil {
		m.report("recipient", logicalRole, DefaultRecipient)
		return DefaultRecipient
	}
	return r
}

// MapNotificationCategory never fails; unknown categories become system_alert.
func (m *Mapper) MapNotificationCategory(logicalCategory, domainContext string) string {
	c, err := ResolveCategory(logicalCategory, domainContext)
	if err != nil {
		m.report("category", logicalCategory+"/"+domainContext, DefaultCategory)
		return DefaultCategory
	}
	return c
}

func (m *Mapper) report(kind, value, fallback string) {
	if m == nil || m.reporter == nil {
		return
	}
	m.reporter.MappingFallback(kind, value, fallback)
}

// MapType normalizes the display type; anything unknown is shown as info.
func MapType(t string) string {
	switch normalize(t) {
	case TypeSuccess:
		return TypeSuccess
	case TypeWarning:
		return TypeWarning
	case TypeError:
		return TypeError
	default:
		return TypeInfo
	}
}
