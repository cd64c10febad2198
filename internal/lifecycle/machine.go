// Package lifecycle holds the registration state machines and the engine that
// decides whether a transition is legal and what it changes. It never touches the store.
package lifecycle

import (
	"spa-registry/internal/models"
)

// Actions shared by the machines.
const (
	ActionApprove   = "approve"
	ActionReject    = "reject"
	ActionResubmit  = "resubmit"
	ActionBlacklist = "blacklist"
	ActionResign    = "resign"
	ActionTerminate = "terminate"
)

// Edge is one legal move. OwnerScoped edges may only be taken by an actor acting
// for the spa that owns the entity.
type Edge struct {
	From           []string
	To             string
	RequiresReason bool
	OwnerScoped    bool
}

// Allows reports whether status is a legal source state.
func (e Edge) Allows(status string) bool {
	for _, f := range e.From {
		if f == status {
			return true
		}
	}
	return false
}

// Machine is the edge table of one entity type.
type Machine struct {
	Entity string
	Edges  map[string]Edge
}

// Edge looks up an action.
func (m Machine) Edge(action string) (Edge, bool) {
	e, ok := m.Edges[action]
	return e, ok
}

// Terminal reports whether no edge leaves status.
func (m Machine) Terminal(status string) bool {
	for _, e := range m.Edges {
		if e.Allows(status) {
			return false
		}
	}
	return true
}

// reasonRequired reports whether entering status needs a reason.
func (m Machine) reasonRequired(status string) bool {
	for _, e := range m.Edges {
		if e.To == status && e.RequiresReason {
			return true
		}
	}
	return false
}

var SpaMachine = Machine{
	Entity: models.EntitySpa,
	Edges: map[string]Edge{
		ActionApprove:   {From: []string{models.SpaStatusPending}, To: models.SpaStatusVerified},
		ActionReject:    {From: []string{models.SpaStatusPending}, To: models.SpaStatusRejected, RequiresReason: true},
		ActionResubmit:  {From: []string{models.SpaStatusRejected}, To: models.SpaStatusPending, OwnerScoped: true},
		ActionBlacklist: {From: []string{models.SpaStatusVerified}, To: models.SpaStatusBlacklisted, RequiresReason: true},
	},
}

// TherapistMachine has no edge out of suspended; the status exists for records
// managed outside this workflow.
var TherapistMachine = Machine{
	Entity: models.EntityTherapist,
	Edges: map[string]Edge{
		ActionApprove:   {From: []string{models.TherapistStatusPending}, To: models.TherapistStatusApproved},
		ActionReject:    {From: []string{models.TherapistStatusPending}, To: models.TherapistStatusRejected, RequiresReason: true},
		ActionResubmit:  {From: []string{models.TherapistStatusRejected}, To: models.TherapistStatusPending, OwnerScoped: true},
		ActionResign:    {From: []string{models.TherapistStatusApproved}, To: models.TherapistStatusResigned, OwnerScoped: true},
		ActionTerminate: {From: []string{models.TherapistStatusApproved}, To: models.TherapistStatusTerminated, OwnerScoped: true},
	},
}

// RequestMachine mirrors the therapist review edges on the open request row.
var RequestMachine = Machine{
	Entity: "therapist_request",
	Edges: map[string]Edge{
		ActionApprove:  {From: []string{models.RequestStatusPending}, To: models.RequestStatusApproved},
		ActionReject:   {From: []string{models.RequestStatusPending}, To: models.RequestStatusRejected},
		ActionResubmit: {From: []string{models.RequestStatusRejected}, To: models.RequestStatusPending},
	},
}

// MachineFor returns the machine of an entity type.
func MachineFor(entityType string) (Machine, bool) {
	switch entityType {
	case models.EntitySpa:
		return SpaMachine, true
	case models.EntityTherapist:
		return TherapistMachine, true
	case RequestMachine.Entity:
		return RequestMachine, true
	}
	return Machine{}, false
}
