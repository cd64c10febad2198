package registration

import (
	"context"
	"fmt"
	"strings"

	"spa-registry/internal/lifecycle"
	"spa-registry/internal/models"
	"spa-registry/internal/notification"
	"spa-registry/internal/store"
	"spa-registry/internal/txn"
)

func therapistDraft(role string, recipient *int64, title, message, displayType, category string) notification.Draft {
	return notification.Draft{
		Role:          role,
		RecipientID:   recipient,
		Title:         title,
		Message:       message,
		Type:          displayType,
		Category:      category,
		DomainContext: models.EntityTherapist,
		RelatedType:   models.EntityTherapist,
	}
}

// SubmitTherapist registers a therapist under a spa and opens the first review request.
func (s *Service) SubmitTherapist(ctx context.Context, spaID int64, f models.TherapistFields, docs models.TherapistDocuments) (*Submission, error) {
	if err := therapistFieldsSchema.Validate(f); err != nil {
		return nil, err
	}

	spa, err := store.GetSpa(ctx, s.db, spaID)
	if err != nil {
		return nil, err
	}

	var reference string
	actor := lifecycle.SpaActor(spaID)
	fullName := strings.TrimSpace(f.FirstName + " " + f.LastName)
	id, err := s.coord.ApplyAtomically(ctx, txn.Unit{
		Name:       "submit_therapist",
		EntityType: models.EntityTherapist,
		Action:     "created",
		Mutate: func(ctx context.Context, tx store.DBTX) (int64, error) {
			id, ref, err := store.InsertTherapist(ctx, tx, spaID, f, docs)
			if err != nil {
				return 0, err
			}
			reference = ref
			if _, err := store.InsertTherapistRequest(ctx, tx, id, spaID, models.RequestTypeAdd, nil); err != nil {
				return 0, err
			}
			return id, nil
		},
		Audit: models.ActivityLog{
			Description: fmt.Sprintf("Therapist %s submitted by %s", fullName, spa.Name),
			ActorType:   actor.Type,
			ActorID:     actor.ID,
			ActorName:   spa.Name,
		},
		Notifications: []notification.Draft{
			therapistDraft("reviewer", nil, "New therapist request",
				fmt.Sprintf("%s has requested approval for %s.", spa.Name, fullName),
				notification.TypeInfo, "request"),
		},
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("therapist submitted", map[string]interface{}{
		"therapistId":     id,
		"spaId":           spaID,
		"referenceNumber": reference,
	})
	return &Submission{ID: id, ReferenceNumber: reference, Status: models.TherapistStatusPending}, nil
}

// ApproveTherapist approves a pending therapist and its open request, and opens a
// working history entry for the owning spa.
func (s *Service) ApproveTherapist(ctx context.Context, therapistID int64, reviewedBy string) (*Outcome, error) {
	return s.review(ctx, therapistID, lifecycle.ActionApprove, "", reviewedBy)
}

// RejectTherapist rejects a pending therapist and its open request. reason is required.
func (s *Service) RejectTherapist(ctx context.Context, therapistID int64, reason, reviewedBy string) (*Outcome, error) {
	return s.review(ctx, therapistID, lifecycle.ActionReject, reason, reviewedBy)
}

func (s *Service) review(ctx context.Context, therapistID int64, action, reason, reviewedBy string) (*Outcome, error) {
	t, err := store.GetTherapist(ctx, s.db, therapistID)
	if err != nil {
		return nil, err
	}

	actor := lifecycle.ReviewerActor(reviewedBy)
	result, err := s.engine.Transition(lifecycle.TherapistSnapshot(t), action, actor,
		lifecycle.Payload{Reason: reason, ReviewedBy: reviewedBy})
	if err != nil {
		return nil, err
	}

	to := result.Change.To
	var requestStatus string
	var message *string
	var draft notification.Draft
	switch to {
	case models.TherapistStatusApproved:
		requestStatus = models.RequestStatusApproved
		draft = therapistDraft("spa_owner", int64Ptr(t.SpaID), "Therapist approved",
			fmt.Sprintf("%s has been approved.", t.FullName()),
			notification.TypeSuccess, to)
	default:
		requestStatus = models.RequestStatusRejected
		r := strings.TrimSpace(reason)
		message = &r
		draft = therapistDraft("spa_owner", int64Ptr(t.SpaID), "Therapist rejected",
			fmt.Sprintf("%s was rejected: %s", t.FullName(), r),
			notification.TypeError, to)
	}

	description := fmt.Sprintf("Therapist %s %s", t.FullName(), to)
	if message != nil {
		description += ": " + *message
	}

	_, err = s.coord.ApplyAtomically(ctx, txn.Unit{
		Name:       action + "_therapist",
		EntityType: models.EntityTherapist,
		Action:     to,
		Mutate: func(ctx context.Context, tx store.DBTX) (int64, error) {
			if err := store.UpdateTherapistStatus(ctx, tx, result.Change); err != nil {
				return 0, err
			}
			moved, err := store.RespondToOpenRequest(ctx, tx, therapistID, requestStatus, message, actor.ID, result.At)
			if err != nil {
				return 0, err
			}
			if moved == 0 {
				s.logger.Debug("therapist has no open request", map[string]interface{}{"therapistId": therapistID})
			}
			return therapistID, nil
		},
		Audit: models.ActivityLog{
			EntityID:    therapistID,
			Description: description,
			ActorType:   actor.Type,
			ActorID:     actor.ID,
			ActorName:   actor.Name,
		},
		Notifications: []notification.Draft{draft},
	})
	if err != nil {
		return nil, err
	}
	return outcomeOf(result), nil
}

// ResignTherapist records that an approved therapist left the requesting spa and
// closes their open working history entry there.
func (s *Service) ResignTherapist(ctx context.Context, therapistID, spaID int64) (*Outcome, error) {
	return s.release(ctx, therapistID, spaID, lifecycle.ActionResign, "")
}

// TerminateTherapist ends an approved therapist's engagement with the requesting spa.
func (s *Service) TerminateTherapist(ctx context.Context, therapistID, spaID int64, reason string) (*Outcome, error) {
	return s.release(ctx, therapistID, spaID, lifecycle.ActionTerminate, reason)
}

func (s *Service) release(ctx context.Context, therapistID, spaID int64, action, reason string) (*Outcome, error) {
	t, err := store.GetTherapist(ctx, s.db, therapistID)
	if err != nil {
		return nil, err
	}

	actor := lifecycle.SpaActor(spaID)
	result, err := s.engine.Transition(lifecycle.TherapistSnapshot(t), action, actor, lifecycle.Payload{Reason: reason})
	if err != nil {
		return nil, err
	}

	to := result.Change.To
	draft := therapistDraft("reviewer", nil, "Therapist resigned",
		fmt.Sprintf("%s has resigned.", t.FullName()), notification.TypeInfo, to)
	description := fmt.Sprintf("Therapist %s resigned", t.FullName())
	if to == models.TherapistStatusTerminated {
		draft = therapistDraft("reviewer", nil, "Therapist terminated",
			fmt.Sprintf("%s has been terminated.", t.FullName()), notification.TypeWarning, to)
		description = fmt.Sprintf("Therapist %s terminated", t.FullName())
	}
	if r := strings.TrimSpace(reason); r != "" {
		draft.Message += " Reason: " + r
		description += ": " + r
	}

	_, err = s.coord.ApplyAtomically(ctx, txn.Unit{
		Name:       action + "_therapist",
		EntityType: models.EntityTherapist,
		Action:     to,
		Mutate: func(ctx context.Context, tx store.DBTX) (int64, error) {
			return therapistID, store.UpdateTherapistStatus(ctx, tx, result.Change)
		},
		Audit: models.ActivityLog{
			EntityID:    therapistID,
			Description: description,
			ActorType:   actor.Type,
			ActorID:     actor.ID,
		},
		Notifications: []notification.Draft{draft},
	})
	if err != nil {
		return nil, err
	}

	if !result.HistoryClosed {
		s.logger.Warn("no open working history entry to close", map[string]interface{}{
			"therapistId": therapistID,
			"spaId":       spaID,
		})
	}
	return outcomeOf(result), nil
}

// ResubmitTherapist moves a rejected therapist back to pending with corrected
// details and reopens the review request.
func (s *Service) ResubmitTherapist(ctx context.Context, therapistID, spaID int64, f models.TherapistFields, docs models.TherapistDocuments) (*Outcome, error) {
	if err := therapistFieldsSchema.Validate(f); err != nil {
		return nil, err
	}

	t, err := store.GetTherapist(ctx, s.db, therapistID)
	if err != nil {
		return nil, err
	}

	actor := lifecycle.SpaActor(spaID)
	result, err := s.engine.Transition(lifecycle.TherapistSnapshot(t), lifecycle.ActionResubmit, actor, lifecycle.Payload{})
	if err != nil {
		return nil, err
	}

	fullName := strings.TrimSpace(f.FirstName + " " + f.LastName)
	var reopened int64
	_, err = s.coord.ApplyAtomically(ctx, txn.Unit{
		Name:       "resubmit_therapist",
		EntityType: models.EntityTherapist,
		Action:     "resubmitted",
		Mutate: func(ctx context.Context, tx store.DBTX) (int64, error) {
			if err := store.UpdateTherapistStatus(ctx, tx, result.Change); err != nil {
				return 0, err
			}
			if err := store.UpdateTherapistDetails(ctx, tx, therapistID, f, docs); err != nil {
				return 0, err
			}
			n, err := store.ReopenLatestRequest(ctx, tx, therapistID)
			if err != nil {
				return 0, err
			}
			reopened = n
			if n == 0 {
				if _, err := store.InsertTherapistRequest(ctx, tx, therapistID, spaID, models.RequestTypeResubmit, nil); err != nil {
					return 0, err
				}
			}
			return therapistID, nil
		},
		Audit: models.ActivityLog{
			EntityID:    therapistID,
			Description: fmt.Sprintf("Therapist %s resubmitted for review", fullName),
			ActorType:   actor.Type,
			ActorID:     actor.ID,
		},
		Notifications: []notification.Draft{
			therapistDraft("reviewer", nil, "Therapist resubmitted",
				fmt.Sprintf("%s has been resubmitted for review.", fullName),
				notification.TypeInfo, "resubmitted"),
			therapistDraft("spa_owner", int64Ptr(spaID), "Therapist resubmitted",
				fmt.Sprintf("%s is back under review.", fullName),
				notification.TypeInfo, "resubmitted"),
		},
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("therapist resubmitted", map[string]interface{}{
		"therapistId":     therapistID,
		"reopenedRequest": reopened > 0,
		"documentsUpdate": !docs.Empty(),
	})
	return outcomeOf(result), nil
}
