package registration

import (
	"context"
	"fmt"
	"strings"

	apperrors "spa-registry/internal/common/errors"
	"spa-registry/internal/lifecycle"
	"spa-registry/internal/models"
	"spa-registry/internal/notification"
	"spa-registry/internal/store"
	"spa-registry/internal/txn"
)

// Statuses accepted by SetSpaStatus, mapped to the engine action.
var spaStatusActions = map[string]string{
	models.SpaStatusVerified:    lifecycle.ActionApprove,
	"approved":                  lifecycle.ActionApprove,
	models.SpaStatusRejected:    lifecycle.ActionReject,
	models.SpaStatusBlacklisted: lifecycle.ActionBlacklist,
}

// SubmitSpaRegistration creates a pending spa and tells the reviewers.
func (s *Service) SubmitSpaRegistration(ctx context.Context, f models.SpaFields, docs models.SpaDocuments) (*Submission, error) {
	if err := spaFieldsSchema.Validate(f); err != nil {
		return nil, err
	}

	var reference string
	name := strings.TrimSpace(f.Name)
	id, err := s.coord.ApplyAtomically(ctx, txn.Unit{
		Name:       "submit_spa_registration",
		EntityType: models.EntitySpa,
		Action:     "created",
		Mutate: func(ctx context.Context, tx store.DBTX) (int64, error) {
			id, ref, err := store.InsertSpa(ctx, tx, f, docs)
			reference = ref
			return id, err
		},
		Audit: models.ActivityLog{
			Description: fmt.Sprintf("Spa registration submitted: %s", name),
			ActorType:   models.ActorSpa,
			ActorName:   name,
		},
		Notifications: []notification.Draft{{
			Role:          "reviewer",
			Title:         "New spa registration",
			Message:       fmt.Sprintf("%s has submitted a registration for review.", name),
			Type:          notification.TypeInfo,
			Category:      "submitted",
			DomainContext: models.EntitySpa,
			RelatedType:   models.EntitySpa,
		}},
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("spa registration submitted", map[string]interface{}{
		"spaId":           id,
		"referenceNumber": reference,
	})
	return &Submission{ID: id, ReferenceNumber: reference, Status: models.SpaStatusPending}, nil
}

// SetSpaStatus records a reviewer decision: verified (alias approved), rejected or
// blacklisted. Rejection and blacklisting need a reason.
func (s *Service) SetSpaStatus(ctx context.Context, spaID int64, status, reason, reviewedBy string) (*Outcome, error) {
	action, ok := spaStatusActions[strings.ToLower(strings.TrimSpace(status))]
	if !ok {
		return nil, apperrors.NewValidationError("unsupported spa status",
			apperrors.FieldError{Field: "status", Message: fmt.Sprintf("%q is not one of verified, rejected, blacklisted", status)})
	}

	spa, err := store.GetSpa(ctx, s.db, spaID)
	if err != nil {
		return nil, err
	}

	actor := lifecycle.ReviewerActor(reviewedBy)
	result, err := s.engine.Transition(lifecycle.SpaSnapshot(spa), action, actor,
		lifecycle.Payload{Reason: reason, ReviewedBy: reviewedBy})
	if err != nil {
		return nil, err
	}

	to := result.Change.To
	draft := notification.Draft{
		Role:          "spa_owner",
		RecipientID:   int64Ptr(spaID),
		Category:      to,
		DomainContext: models.EntitySpa,
		RelatedType:   models.EntitySpa,
	}
	switch to {
	case models.SpaStatusVerified:
		draft.Title = "Registration approved"
		draft.Message = fmt.Sprintf("Your registration %s has been approved.", spa.ReferenceNumber)
		draft.Type = notification.TypeSuccess
	case models.SpaStatusRejected:
		draft.Title = "Registration rejected"
		draft.Message = fmt.Sprintf("Your registration %s was rejected: %s", spa.ReferenceNumber, strings.TrimSpace(reason))
		draft.Type = notification.TypeError
	case models.SpaStatusBlacklisted:
		draft.Title = "Spa blacklisted"
		draft.Message = fmt.Sprintf("%s has been blacklisted: %s", spa.Name, strings.TrimSpace(reason))
		draft.Type = notification.TypeError
	}

	_, err = s.coord.ApplyAtomically(ctx, txn.Unit{
		Name:       "set_spa_status",
		EntityType: models.EntitySpa,
		Action:     to,
		Mutate: func(ctx context.Context, tx store.DBTX) (int64, error) {
			return spaID, store.UpdateSpaStatus(ctx, tx, result.Change)
		},
		Audit: models.ActivityLog{
			EntityID:    spaID,
			Description: describeSpaDecision(spa, to, reason),
			ActorType:   actor.Type,
			ActorID:     actor.ID,
			ActorName:   actor.Name,
		},
		Notifications: []notification.Draft{draft},
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("spa status changed", map[string]interface{}{
		"spaId": spaID,
		"from":  result.Change.From,
		"to":    to,
	})
	return outcomeOf(result), nil
}

func describeSpaDecision(spa *models.Spa, to, reason string) string {
	d := fmt.Sprintf("Spa %s %s", spa.ReferenceNumber, to)
	if r := strings.TrimSpace(reason); r != "" {
		d += ": " + r
	}
	return d
}

// ResubmitSpa moves a rejected spa back to pending with corrected details. Document
// categories left empty keep their stored files.
func (s *Service) ResubmitSpa(ctx context.Context, spaID int64, f models.SpaFields, docs models.SpaDocuments) (*Outcome, error) {
	if err := spaFieldsSchema.Validate(f); err != nil {
		return nil, err
	}

	spa, err := store.GetSpa(ctx, s.db, spaID)
	if err != nil {
		return nil, err
	}

	actor := lifecycle.SpaActor(spaID)
	result, err := s.engine.Transition(lifecycle.SpaSnapshot(spa), lifecycle.ActionResubmit, actor, lifecycle.Payload{})
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(f.Name)
	_, err = s.coord.ApplyAtomically(ctx, txn.Unit{
		Name:       "resubmit_spa",
		EntityType: models.EntitySpa,
		Action:     "resubmitted",
		Mutate: func(ctx context.Context, tx store.DBTX) (int64, error) {
			if err := store.UpdateSpaStatus(ctx, tx, result.Change); err != nil {
				return 0, err
			}
			return spaID, store.UpdateSpaDetails(ctx, tx, spaID, f, docs)
		},
		Audit: models.ActivityLog{
			EntityID:    spaID,
			Description: fmt.Sprintf("Spa %s resubmitted for review", spa.ReferenceNumber),
			ActorType:   actor.Type,
			ActorID:     actor.ID,
			ActorName:   name,
		},
		Notifications: []notification.Draft{
			{
				Role:          "reviewer",
				Title:         "Spa registration resubmitted",
				Message:       fmt.Sprintf("%s has resubmitted registration %s.", name, spa.ReferenceNumber),
				Type:          notification.TypeInfo,
				Category:      "resubmitted",
				DomainContext: models.EntitySpa,
				RelatedType:   models.EntitySpa,
			},
			{
				Role:          "spa_owner",
				RecipientID:   int64Ptr(spaID),
				Title:         "Registration resubmitted",
				Message:       fmt.Sprintf("Registration %s is back under review.", spa.ReferenceNumber),
				Type:          notification.TypeInfo,
				Category:      "resubmitted",
				DomainContext: models.EntitySpa,
				RelatedType:   models.EntitySpa,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("spa resubmitted", map[string]interface{}{
		"spaId":           spaID,
		"documentsUpdate": !docs.Empty(),
	})
	return outcomeOf(result), nil
}
