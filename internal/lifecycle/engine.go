// internal/lifecycle/engine.go
package lifecycle

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "spa-registry/internal/common/errors"
	"spa-registry/internal/models"
)

// DateLayout is the stored form of calendar dates.
const DateLayout = "2006-01-02"

// Actor is whoever requests a transition. SpaID is set when the actor acts for a spa.
type Actor struct {
	Type  string
	ID    string
	Name  string
	SpaID *int64
}

// SpaActor is a spa acting on its own records.
func SpaActor(spaID int64) Actor {
	return Actor{Type: models.ActorSpa, ID: fmt.Sprintf("%d", spaID), SpaID: &spaID}
}

// ReviewerActor is an authority reviewer.
func ReviewerActor(id string) Actor {
	return Actor{Type: models.ActorAdminLSA, ID: id, Name: id}
}

// Snapshot is the state of an entity as loaded before the transition.
type Snapshot struct {
	EntityType     string
	EntityID       int64
	Status         string
	OwnerSpaID     int64
	WorkingHistory *string
}

// SpaSnapshot captures a spa. A spa owns itself.
func SpaSnapshot(s *models.Spa) Snapshot {
	return Snapshot{EntityType: models.EntitySpa, EntityID: s.ID, Status: s.Status, OwnerSpaID: s.ID}
}

// TherapistSnapshot captures a therapist.
func TherapistSnapshot(t *models.Therapist) Snapshot {
	return Snapshot{
		EntityType:     models.EntityTherapist,
		EntityID:       t.ID,
		Status:         t.Status,
		OwnerSpaID:     t.SpaID,
		WorkingHistory: t.WorkingHistoryRaw,
	}
}

// Payload carries the caller's inputs to a transition.
type Payload struct {
	Reason     string
	ReviewedBy string
}

// TransitionResult is a legal transition ready for the write coordinator.
type TransitionResult struct {
	Change models.StatusChange
	At     time.Time
	// HistoryClosed is set when resign or terminate closed an open history entry.
	HistoryClosed bool
	// HistoryOpened is set when approval added an open history entry.
	HistoryOpened bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine validates transitions and computes their derived fields.
type Engine struct {
	now func() time.Time
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Transition applies a named action from the entity's machine.
func (e *Engine) Transition(s Snapshot, action string, actor Actor, p Payload) (*TransitionResult, error) {
	m, ok := MachineFor(s.EntityType)
	if !ok {
		return nil, apperrors.NewInternalError(fmt.Sprintf("no state machine for %q", s.EntityType), nil)
	}
	edge, ok := m.Edge(action)
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown %s action", s.EntityType),
			apperrors.FieldError{Field: "action", Message: fmt.Sprintf("%q is not a %s action", action, s.EntityType)})
	}
	return e.apply(s, action, edge, actor, p)
}

// Apply moves the entity to nextState if its status is in expected. Ownership is
// checked whenever the actor acts for a spa.
func (e *Engine) Apply(s Snapshot, expected []string, nextState string, actor Actor, p Payload) (*TransitionResult, error) {
	if len(expected) == 0 {
		return nil, apperrors.NewInternalError("transition without expected states", nil)
	}
	m, ok := MachineFor(s.EntityType)
	if !ok {
		return nil, apperrors.NewInternalError(fmt.Sprintf("no state machine for %q", s.EntityType), nil)
	}
	edge := Edge{
		From:           expected,
		To:             nextState,
		RequiresReason: m.reasonRequired(nextState),
		OwnerScoped:    actor.SpaID != nil,
	}
	return e.apply(s, actionFor(m, nextState), edge, actor, p)
}

func actionFor(m Machine, to string) string {
	for action, edge := range m.Edges {
		if edge.To == to {
			return action
		}
	}
	return to
}

func (e *Engine) apply(s Snapshot, action string, edge Edge, actor Actor, p Payload) (*TransitionResult, error) {
	if edge.OwnerScoped && (actor.SpaID == nil || *actor.SpaID != s.OwnerSpaID) {
		return nil, apperrors.NewInvalidTransitionError(s.EntityType, s.EntityID,
			fmt.Sprintf("%s does not belong to the requesting spa", s.EntityType))
	}
	if !edge.Allows(s.Status) {
		return nil, apperrors.NewInvalidTransitionError(s.EntityType, s.EntityID,
			fmt.Sprintf("cannot %s from %s (allowed: %s)", action, s.Status, strings.Join(edge.From, ", ")))
	}
	reason := strings.TrimSpace(p.Reason)
	if edge.RequiresReason && reason == "" {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s requires a reason", action),
			apperrors.FieldError{Field: "reason", Message: "is required"})
	}

	now := e.now()
	result := &TransitionResult{
		At: now,
		Change: models.StatusChange{
			EntityType: s.EntityType,
			EntityID:   s.EntityID,
			Action:     action,
			From:       s.Status,
			To:         edge.To,
			Fields:     map[string]interface{}{},
		},
	}

	switch s.EntityType {
	case models.EntitySpa:
		deriveSpa(result, now, reason, p.ReviewedBy)
	case models.EntityTherapist:
		if err := deriveTherapist(result, s, actor, now, reason); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func optional(s string) interface{} {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

func deriveSpa(r *TransitionResult, now time.Time, reason, reviewedBy string) {
	f := r.Change.Fields
	switch r.Change.To {
	case models.SpaStatusVerified:
		f["verified_at"] = now
		f["verified_by"] = optional(reviewedBy)
	case models.SpaStatusRejected:
		f["reject_reason"] = reason
	case models.SpaStatusPending:
		f["reject_reason"] = nil
	case models.SpaStatusBlacklisted:
		f["blacklist_reason"] = reason
		f["blacklisted_at"] = now
		f["blacklisted_by"] = optional(reviewedBy)
	}
}

func deriveTherapist(r *TransitionResult, s Snapshot, actor Actor, now time.Time, reason string) error {
	f := r.Change.Fields
	today := now.Format(DateLayout)

	spaID := s.OwnerSpaID
	if actor.SpaID != nil {
		spaID = *actor.SpaID
	}

	switch r.Change.To {
	case models.TherapistStatusApproved:
		f["approved_date"] = today
		history, opened, err := OpenHistoryEntry(s.WorkingHistory, spaID, today)
		if err != nil {
			return err
		}
		if opened {
			f["working_history"] = history
			r.HistoryOpened = true
		}
	case models.TherapistStatusRejected:
		f["reject_reason"] = reason
	case models.TherapistStatusPending:
		f["reject_reason"] = nil
	case models.TherapistStatusResigned:
		f["resign_date"] = today
		history, closed, err := CloseHistoryEntry(s.WorkingHistory, spaID, today, models.TherapistStatusResigned, reason)
		if err != nil {
			return err
		}
		if closed {
			f["working_history"] = history
			r.HistoryClosed = true
		}
	case models.TherapistStatusTerminated:
		f["terminated_at"] = now
		f["termination_reason"] = optional(reason)
		history, closed, err := CloseHistoryEntry(s.WorkingHistory, spaID, today, models.TherapistStatusTerminated, reason)
		if err != nil {
			return err
		}
		if closed {
			f["working_history"] = history
			r.HistoryClosed = true
		}
	}
	return nil
}

// CloseHistoryEntry closes the most recent open entry for spaID. Every other entry
// keeps its exact bytes. closed is false, and raw is returned as is, when there is
// no open entry or the stored value is not a JSON array.
func CloseHistoryEntry(raw *string, spaID int64, endDate, status, reason string) (string, bool, error) {
	elems, ok := models.HistoryElements(raw)
	if !ok {
		return deref(raw), false, nil
	}

	idx := -1
	for i, el := range elems {
		var entry models.HistoryEntry
		if err := json.Unmarshal(el, &entry); err != nil {
			continue
		}
		if int64(entry.SpaID) == spaID && entry.Open() {
			idx = i
		}
	}
	if idx < 0 {
		return deref(raw), false, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(elems[idx], &fields); err != nil {
		return deref(raw), false, nil
	}
	fields["end_date"], _ = json.Marshal(endDate)
	fields["status"], _ = json.Marshal(status)
	if reason = strings.TrimSpace(reason); reason != "" {
		fields["reason_for_leaving"], _ = json.Marshal(reason)
	}

	closedEntry, err := json.Marshal(fields)
	if err != nil {
		return "", false, apperrors.NewInternalError("encode working history", err)
	}
	out := make([]json.RawMessage, len(elems))
	copy(out, elems)
	out[idx] = closedEntry
	return models.JoinHistoryElements(out), true, nil
}

// OpenHistoryEntry appends an active entry for spaID unless one is already open.
// A stored value that is not a JSON array is left alone.
func OpenHistoryEntry(raw *string, spaID int64, startDate string) (string, bool, error) {
	elems, ok := models.HistoryElements(raw)
	if !ok {
		return deref(raw), false, nil
	}
	for _, el := range elems {
		var entry models.HistoryEntry
		if err := json.Unmarshal(el, &entry); err != nil {
			continue
		}
		if int64(entry.SpaID) == spaID && entry.Open() {
			return deref(raw), false, nil
		}
	}

	entry, err := json.Marshal(models.HistoryEntry{
		SpaID:     models.FlexibleID(spaID),
		StartDate: startDate,
		Status:    models.HistoryStatusActive,
	})
	if err != nil {
		return "", false, apperrors.NewInternalError("encode working history", err)
	}
	return models.JoinHistoryElements(append(elems, entry)), true, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
