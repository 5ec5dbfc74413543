package cron

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/orkestra-labs/roster-backend/internal/notification"
	"github.com/orkestra-labs/roster-backend/internal/repository"
	"github.com/orkestra-labs/roster-backend/internal/service"
	"github.com/orkestra-labs/roster-backend/internal/types"
)

// Scheduler handles scheduled tasks
type Scheduler struct {
	cron        *cron.Cron
	services    *service.Services
	notifSvc    *notification.Service
	memberRepo  repository.MemberRepository
	requestRepo repository.StatusRequestRepository
	notifRepo   repository.NotificationRepository
	eventRepo   repository.EventRepository
}

// NewScheduler creates a new scheduler with direct repository access
func NewScheduler(
	services *service.Services,
	notifSvc *notification.Service,
	repos *repository.Repositories,
) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		services:    services,
		notifSvc:    notifSvc,
		memberRepo:  repos.MemberRepo,
		requestRepo: repos.StatusRequestRepo,
		notifRepo:   repos.NotificationRepo,
		eventRepo:   repos.EventRepo,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	// Run every day at 9 AM - remind targets of stale pending requests
	s.cron.AddFunc("0 9 * * *", func() {
		log.Println("[Cron] Running pending request reminder check...")
		s.remindStalePendingRequests()
	})

	// Run every hour - event start reminders
	s.cron.AddFunc("0 * * * *", func() {
		log.Println("[Cron] Running event reminder check...")
		s.sendEventReminders()
	})

	// Clean up old read notifications - Run every Sunday at midnight
	s.cron.AddFunc("0 0 * * 0", func() {
		log.Println("[Cron] Running notification cleanup...")
		s.cleanupOldNotifications()
	})

	// Nightly roster backup - Run every day at 2 AM
	s.cron.AddFunc("0 2 * * *", func() {
		log.Println("[Cron] Running nightly roster backup...")
		s.runNightlyBackup()
	})

	s.cron.Start()
	log.Println("[Cron] Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[Cron] Scheduler stopped")
}

// remindStalePendingRequests nudges targets about requests waiting more
// than three days for a decision.
func (s *Scheduler) remindStalePendingRequests() {
	ctx := context.Background()

	requests, err := s.requestRepo.FindPendingOlderThan(ctx, 72*time.Hour)
	if err != nil {
		log.Printf("[Cron] Error finding stale requests: %v", err)
		return
	}

	now := time.Now()
	for _, req := range requests {
		age := now.Sub(req.CreatedAt)
		if err := s.notifSvc.SendRequestPendingReminder(ctx, req.TargetID, req.InitiatorName, req.ToStatus, req.ID, age); err != nil {
			log.Printf("[Cron] Error sending reminder for request %s: %v", req.ID, err)
		}
	}

	if len(requests) > 0 {
		log.Printf("[Cron] Sent %d pending request reminders", len(requests))
	}
}

// sendEventReminders notifies every member of events starting within the
// next 24 hours.
func (s *Scheduler) sendEventReminders() {
	ctx := context.Background()

	events, err := s.eventRepo.FindStartingWithin(ctx, 24*time.Hour)
	if err != nil {
		log.Printf("[Cron] Error finding upcoming events: %v", err)
		return
	}
	if len(events) == 0 {
		return
	}

	members, err := s.memberRepo.FindAll(ctx)
	if err != nil {
		log.Printf("[Cron] Error listing members: %v", err)
		return
	}

	for _, event := range events {
		// One reminder per event; the stored notification is the marker.
		sent, err := s.notifRepo.ExistsEventReminder(ctx, event.ID)
		if err != nil {
			log.Printf("[Cron] Error checking reminder state for event %s: %v", event.ID, err)
			continue
		}
		if sent {
			continue
		}
		for _, m := range members {
			if err := s.notifSvc.SendEventReminder(ctx, m.ID, event.Title, event.ID, event.StartsAt); err != nil {
				log.Printf("[Cron] Error sending event reminder to %s: %v", m.ID, err)
			}
		}
	}
}

// cleanupOldNotifications removes read notifications older than 30 days
func (s *Scheduler) cleanupOldNotifications() {
	ctx := context.Background()

	cutoff := time.Now().AddDate(0, 0, -30)
	deleted, err := s.notifRepo.DeleteOlderThan(ctx, cutoff, true)
	if err != nil {
		log.Printf("[Cron] Error cleaning up notifications: %v", err)
		return
	}

	log.Printf("[Cron] Cleaned up %d old notifications", deleted)
}

// runNightlyBackup snapshots the roster to object storage. The snapshot is
// attributed to the system rather than a member.
func (s *Scheduler) runNightlyBackup() {
	ctx := context.Background()

	admins, err := s.memberRepo.FindByStatus(ctx, types.StatusAdvisory)
	if err != nil || len(admins) == 0 {
		admins, err = s.memberRepo.FindByStatus(ctx, types.StatusExecutive)
	}
	if err != nil || len(admins) == 0 {
		log.Println("[Cron] No admin account available to attribute backup, skipping")
		return
	}

	backup, err := s.services.Export.CreateBackup(ctx, admins[0].ID)
	if err != nil {
		log.Printf("[Cron] Nightly backup failed: %v", err)
		return
	}

	log.Printf("[Cron] Nightly backup complete: %s (%d members)", backup.ObjectKey, backup.MemberCount)
}
