package services

import (
	"context"
	"fmt"
	"log"

	"github.com/guardian-portal/api/model"
)

// Dispatcher delivers the side effects of complaint mutations. Delivery is
// best effort: the database write that produced the events has already
// committed, so failures are logged and never surfaced to the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, events []Event)
}

// NotifyDispatcher sends an email and records an in-app notification for
// each event.
type NotifyDispatcher struct {
	email         *EmailService
	notifications *NotificationService
}

func NewNotifyDispatcher(email *EmailService, notifications *NotificationService) *NotifyDispatcher {
	return &NotifyDispatcher{email: email, notifications: notifications}
}

// Dispatch fans events out in the background so request handlers never
// block on SMTP.
func (d *NotifyDispatcher) Dispatch(ctx context.Context, events []Event) {
	for _, ev := range events {
		go d.deliver(context.WithoutCancel(ctx), ev)
	}
}

func (d *NotifyDispatcher) deliver(ctx context.Context, ev Event) {
	switch ev.Kind {
	case EventCreated:
		d.deliverCreated(ctx, ev)
	case EventStatusChanged:
		d.deliverStatusChanged(ctx, ev)
	case EventAssigned:
		d.deliverAssigned(ctx, ev)
	default:
		log.Printf("Unknown event kind %d for complaint %d", ev.Kind, ev.Complaint.ID)
	}
}

func (d *NotifyDispatcher) deliverCreated(ctx context.Context, ev Event) {
	c := ev.Complaint

	if _, err := d.notifications.CreateNotification(ctx, CreateNotificationRequest{
		UserID:      c.StudentID,
		Type:        model.NotificationTypeInfo,
		Category:    model.NotificationCategorySubmitted,
		Title:       "Complaint received",
		Message:     fmt.Sprintf("Your complaint %q has been received and is pending review.", c.Title),
		ComplaintID: &c.ID,
		Metadata: &model.NotificationMetadata{
			ComplaintID:    c.ID,
			ComplaintTitle: c.Title,
			NewStatus:      c.Status,
		},
	}); err != nil {
		log.Printf("Failed to record submission notification for complaint %d: %v", c.ID, err)
	}

	if c.Student != nil && c.Student.Email != "" {
		if err := d.email.SendComplaintSubmitted(c.Student.Email, c.Student.Username, c); err != nil {
			log.Printf("Failed to email submission notice for complaint %d: %v", c.ID, err)
		}
	}
}

func (d *NotifyDispatcher) deliverStatusChanged(ctx context.Context, ev Event) {
	c := ev.Complaint

	notifType := model.NotificationTypeInfo
	if ev.NewStatus == model.StatusSolved {
		notifType = model.NotificationTypeSuccess
	}

	if _, err := d.notifications.CreateNotification(ctx, CreateNotificationRequest{
		UserID:      c.StudentID,
		Type:        notifType,
		Category:    model.NotificationCategoryStatusUpdate,
		Title:       fmt.Sprintf("Complaint %s", ev.NewStatus),
		Message:     fmt.Sprintf("Your complaint %q moved from %s to %s.", c.Title, ev.OldStatus, ev.NewStatus),
		ComplaintID: &c.ID,
		Metadata: &model.NotificationMetadata{
			ComplaintID:    c.ID,
			ComplaintTitle: c.Title,
			OldStatus:      ev.OldStatus,
			NewStatus:      ev.NewStatus,
		},
	}); err != nil {
		log.Printf("Failed to record status notification for complaint %d: %v", c.ID, err)
	}

	if c.Student != nil && c.Student.Email != "" {
		if err := d.email.SendStatusUpdate(c.Student.Email, c.Student.Username, c, ev.OldStatus, ev.NewStatus); err != nil {
			log.Printf("Failed to email status update for complaint %d: %v", c.ID, err)
		}
	}
}

func (d *NotifyDispatcher) deliverAssigned(ctx context.Context, ev Event) {
	c := ev.Complaint
	assignee := ev.Assignee
	if assignee == nil {
		log.Printf("Assignment event without assignee for complaint %d", c.ID)
		return
	}

	if _, err := d.notifications.CreateNotification(ctx, CreateNotificationRequest{
		UserID:      assignee.ID,
		Type:        model.NotificationTypeInfo,
		Category:    model.NotificationCategoryAssignment,
		Title:       "Complaint assigned to you",
		Message:     fmt.Sprintf("The complaint %q has been assigned to you for investigation.", c.Title),
		ComplaintID: &c.ID,
		Metadata: &model.NotificationMetadata{
			ComplaintID:    c.ID,
			ComplaintTitle: c.Title,
			AssigneeID:     assignee.ID,
		},
	}); err != nil {
		log.Printf("Failed to record assignment notification for complaint %d: %v", c.ID, err)
	}

	if assignee.Email != "" {
		if err := d.email.SendAssignmentNotice(assignee, c); err != nil {
			log.Printf("Failed to email assignment notice for complaint %d: %v", c.ID, err)
		}
	}
}
