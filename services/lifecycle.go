package services

import (
	"errors"

	"github.com/guardian-portal/api/model"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidAssignee   = errors.New("complaints can only be assigned to admin, principal or squad accounts")
)

// EventKind identifies a notification-worthy change on a complaint
type EventKind int

const (
	EventCreated EventKind = iota
	EventStatusChanged
	EventAssigned
)

// Event describes a side effect to emit after a complaint mutation has been
// committed. The state machine returns events; a dispatcher consumes them.
// The data mutation is authoritative regardless of delivery outcome.
type Event struct {
	Kind      EventKind
	Complaint *model.Complaint
	OldStatus model.ComplaintStatus
	NewStatus model.ComplaintStatus
	Assignee  *model.User
}

// CanTransition reports whether a complaint may move from one status to
// another. The machine is strictly forward: pending → in_progress → solved
// → closed, with pending → closed and in_progress → closed as
// administrative overrides. closed is terminal and nothing regresses.
func CanTransition(from, to model.ComplaintStatus) bool {
	switch from {
	case model.StatusPending:
		return to == model.StatusInProgress || to == model.StatusClosed
	case model.StatusInProgress:
		return to == model.StatusSolved || to == model.StatusClosed
	case model.StatusSolved:
		return to == model.StatusClosed
	default: // closed
		return false
	}
}

// UpdatePatch carries the mutable complaint fields of an update request.
// Nil means "leave unchanged".
type UpdatePatch struct {
	Status     *model.ComplaintStatus
	AssignedTo *model.User
}

// ApplyUpdate validates patch against the state machine, mutates the
// complaint in memory and returns the events to emit once the change is
// committed. Writing the current status again is a no-op and emits no
// event, so a repeated update never fires a duplicate notification.
func ApplyUpdate(c *model.Complaint, patch UpdatePatch) ([]Event, error) {
	var events []Event

	if patch.Status != nil && *patch.Status != c.Status {
		if !patch.Status.Valid() || !CanTransition(c.Status, *patch.Status) {
			return nil, ErrInvalidTransition
		}
		old := c.Status
		c.Status = *patch.Status
		events = append(events, Event{
			Kind:      EventStatusChanged,
			Complaint: c,
			OldStatus: old,
			NewStatus: c.Status,
		})
	}

	if patch.AssignedTo != nil {
		assignee := patch.AssignedTo
		if assignee.Role == model.RoleStudent {
			return nil, ErrInvalidAssignee
		}
		changed := c.AssignedToID == nil || *c.AssignedToID != assignee.ID
		if changed {
			id := assignee.ID
			c.AssignedToID = &id
			c.AssignedTo = assignee
			events = append(events, Event{
				Kind:      EventAssigned,
				Complaint: c,
				Assignee:  assignee,
			})
		}
	}

	return events, nil
}

// CreationEvent builds the event emitted after a complaint is filed.
func CreationEvent(c *model.Complaint) Event {
	return Event{
		Kind:      EventCreated,
		Complaint: c,
		NewStatus: c.Status,
	}
}
