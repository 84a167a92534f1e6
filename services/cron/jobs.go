package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/guardian-portal/api/model"
	"github.com/guardian-portal/api/services"
)

// staleSolvedAge is how long a solved complaint may sit without activity
// before it is closed automatically.
const staleSolvedAge = 30 * 24 * time.Hour

// PurgeTokenBlacklist removes expired rows from the JWT blacklist so the
// revocation check stays a small-table lookup.
func (m *CronManager) PurgeTokenBlacklist() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	jobName := "purge_token_blacklist"

	removed, err := m.blacklist.CleanupExpiredTokens(ctx)
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to purge blacklist: %w", err))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d expired tokens", removed))
}

// AutoCloseSolvedComplaints closes complaints that were marked solved over
// thirty days ago and have seen no updates since. Closing goes through the
// same transition machinery as a manual update so each student still gets
// their closure notification.
func (m *CronManager) AutoCloseSolvedComplaints() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	jobName := "auto_close_solved_complaints"
	cutoff := time.Now().Add(-staleSolvedAge)

	var complaints []model.Complaint
	err := m.db.WithContext(ctx).
		Preload("Student").
		Where("status = ? AND updated_at < ?", model.StatusSolved, cutoff).
		Find(&complaints).Error
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to query stale complaints: %w", err))
		return
	}

	if len(complaints) == 0 {
		m.logJobComplete(jobName, "No stale solved complaints")
		return
	}

	closed := 0
	failed := 0
	target := model.StatusClosed

	for i := range complaints {
		c := &complaints[i]

		events, err := services.ApplyUpdate(c, services.UpdatePatch{Status: &target})
		if err != nil {
			log.Printf("[CRON] Cannot close complaint %d: %v", c.ID, err)
			failed++
			continue
		}

		if err := m.db.WithContext(ctx).Model(c).Update("status", c.Status).Error; err != nil {
			log.Printf("[CRON] Failed to persist closure of complaint %d: %v", c.ID, err)
			failed++
			continue
		}

		m.dispatcher.Dispatch(ctx, events)
		closed++
	}

	m.logJobComplete(jobName, fmt.Sprintf("Closed %d complaints, %d failures", closed, failed))
}

// CleanupOldNotifications drops read in-app notifications older than ninety
// days.
func (m *CronManager) CleanupOldNotifications() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	jobName := "cleanup_old_notifications"

	removed, err := m.notifications.CleanupOldNotifications(ctx, 90*24*time.Hour)
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to cleanup notifications: %w", err))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d notifications", removed))
}
