package services

import (
	"context"
	"testing"

	"github.com/guardian-portal/api/model"
)

func TestCanTransition(t *testing.T) {
	allowed := map[[2]model.ComplaintStatus]bool{
		{model.StatusPending, model.StatusInProgress}:    true,
		{model.StatusPending, model.StatusClosed}:        true,
		{model.StatusInProgress, model.StatusSolved}:     true,
		{model.StatusInProgress, model.StatusClosed}:     true,
		{model.StatusSolved, model.StatusClosed}:         true,
		{model.StatusPending, model.StatusSolved}:        false,
		{model.StatusInProgress, model.StatusPending}:    false,
		{model.StatusSolved, model.StatusPending}:        false,
		{model.StatusSolved, model.StatusInProgress}:     false,
		{model.StatusClosed, model.StatusPending}:        false,
		{model.StatusClosed, model.StatusInProgress}:     false,
		{model.StatusClosed, model.StatusSolved}:         false,
	}

	for pair, want := range allowed {
		if got := CanTransition(pair[0], pair[1]); got != want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", pair[0], pair[1], got, want)
		}
	}
}

func TestApplyUpdateStatusChange(t *testing.T) {
	c := &model.Complaint{ID: 1, Status: model.StatusPending}
	target := model.StatusInProgress

	events, err := ApplyUpdate(c, UpdatePatch{Status: &target})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Status != model.StatusInProgress {
		t.Errorf("status = %s, want in_progress", c.Status)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Kind != EventStatusChanged {
		t.Errorf("event kind = %v, want EventStatusChanged", ev.Kind)
	}
	if ev.OldStatus != model.StatusPending || ev.NewStatus != model.StatusInProgress {
		t.Errorf("event statuses = %s→%s, want pending→in_progress", ev.OldStatus, ev.NewStatus)
	}
}

func TestApplyUpdateSameStatusIsNoOp(t *testing.T) {
	c := &model.Complaint{ID: 1, Status: model.StatusInProgress}
	target := model.StatusInProgress

	events, err := ApplyUpdate(c, UpdatePatch{Status: &target})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("repeated status write must emit no events, got %d", len(events))
	}
}

func TestApplyUpdateRejectsRegression(t *testing.T) {
	c := &model.Complaint{ID: 1, Status: model.StatusSolved}
	target := model.StatusPending

	if _, err := ApplyUpdate(c, UpdatePatch{Status: &target}); err != ErrInvalidTransition {
		t.Errorf("err = %v, want ErrInvalidTransition", err)
	}
	if c.Status != model.StatusSolved {
		t.Error("complaint must be untouched after a rejected update")
	}
}

func TestApplyUpdateRejectsClosedMutation(t *testing.T) {
	c := &model.Complaint{ID: 1, Status: model.StatusClosed}
	for _, target := range []model.ComplaintStatus{model.StatusPending, model.StatusInProgress, model.StatusSolved} {
		target := target
		if _, err := ApplyUpdate(c, UpdatePatch{Status: &target}); err != ErrInvalidTransition {
			t.Errorf("closed→%s: err = %v, want ErrInvalidTransition", target, err)
		}
	}
}

func TestApplyUpdateAssignment(t *testing.T) {
	c := &model.Complaint{ID: 1, Status: model.StatusPending}
	squad := &model.User{ID: 9, Role: model.RoleSquad}

	events, err := ApplyUpdate(c, UpdatePatch{AssignedTo: squad})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.AssignedToID == nil || *c.AssignedToID != 9 {
		t.Error("assignee not recorded")
	}
	if len(events) != 1 || events[0].Kind != EventAssigned {
		t.Fatalf("expected one EventAssigned, got %v", events)
	}
	if events[0].Assignee != squad {
		t.Error("event should carry the assignee")
	}
}

func TestApplyUpdateReassignToSameUserIsNoOp(t *testing.T) {
	id := uint(9)
	c := &model.Complaint{ID: 1, Status: model.StatusInProgress, AssignedToID: &id}
	squad := &model.User{ID: 9, Role: model.RoleSquad}

	events, err := ApplyUpdate(c, UpdatePatch{AssignedTo: squad})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("reassigning the same user must emit no events, got %d", len(events))
	}
}

func TestApplyUpdateRejectsStudentAssignee(t *testing.T) {
	c := &model.Complaint{ID: 1, Status: model.StatusPending}
	student := &model.User{ID: 5, Role: model.RoleStudent}

	if _, err := ApplyUpdate(c, UpdatePatch{AssignedTo: student}); err != ErrInvalidAssignee {
		t.Errorf("err = %v, want ErrInvalidAssignee", err)
	}
	if c.AssignedToID != nil {
		t.Error("rejected assignment must not stick")
	}
}

func TestApplyUpdateStatusAndAssignmentTogether(t *testing.T) {
	c := &model.Complaint{ID: 1, Status: model.StatusPending}
	target := model.StatusInProgress
	squad := &model.User{ID: 9, Role: model.RoleSquad}

	events, err := ApplyUpdate(c, UpdatePatch{Status: &target, AssignedTo: squad})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Kind != EventStatusChanged || events[1].Kind != EventAssigned {
		t.Errorf("event order = %v,%v; want status change then assignment", events[0].Kind, events[1].Kind)
	}
}

// recordingDispatcher captures dispatched events for assertions
type recordingDispatcher struct {
	events []Event
}

func (r *recordingDispatcher) Dispatch(_ context.Context, events []Event) {
	r.events = append(r.events, events...)
}

func TestDispatcherReceivesLifecycleEvents(t *testing.T) {
	rec := &recordingDispatcher{}
	c := &model.Complaint{ID: 1, Status: model.StatusPending, StudentID: 5}

	rec.Dispatch(context.Background(), []Event{CreationEvent(c)})

	target := model.StatusInProgress
	events, err := ApplyUpdate(c, UpdatePatch{Status: &target})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec.Dispatch(context.Background(), events)

	if len(rec.events) != 2 {
		t.Fatalf("recorded %d events, want 2", len(rec.events))
	}
	if rec.events[0].Kind != EventCreated {
		t.Errorf("first event = %v, want EventCreated", rec.events[0].Kind)
	}
	if rec.events[1].Kind != EventStatusChanged {
		t.Errorf("second event = %v, want EventStatusChanged", rec.events[1].Kind)
	}
}
