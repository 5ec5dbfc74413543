package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/orkestra-labs/roster-backend/internal/repository"
	"github.com/orkestra-labs/roster-backend/internal/socket"
)

// Notification types
const (
	TypeStatusChangeRequested = "STATUS_CHANGE_REQUESTED"
	TypeStatusChangeAccepted  = "STATUS_CHANGE_ACCEPTED"
	TypeStatusChangeRejected  = "STATUS_CHANGE_REJECTED"
	TypeStatusChanged         = "STATUS_CHANGED"
	TypeRequestPending        = "REQUEST_PENDING_REMINDER"
	TypeEventReminder         = "EVENT_REMINDER"
	TypeEventCreated          = "EVENT_CREATED"
	TypePostCreated           = "POST_CREATED"
	TypeWelcome               = "WELCOME"
)

// Service handles sending notifications
type Service struct {
	notificationRepo repository.NotificationRepository
	memberRepo       repository.MemberRepository
	broadcaster      *socket.Broadcaster
	feed             *Feed
}

// NewService creates a new notification service
func NewService(notificationRepo repository.NotificationRepository, memberRepo repository.MemberRepository) *Service {
	return &Service{
		notificationRepo: notificationRepo,
		memberRepo:       memberRepo,
	}
}

func (s *Service) SetBroadcaster(b *socket.Broadcaster) {
	s.broadcaster = b
}

// SetFeed attaches the cached feed so writes invalidate it
func (s *Service) SetFeed(f *Feed) {
	s.feed = f
}

// ============================================
// WebSocket Helper
// ============================================

// sendWebSocketNotification sends real-time notification via WebSocket
func (s *Service) sendWebSocketNotification(notification *repository.Notification) {
	if s.broadcaster == nil || notification == nil {
		return
	}

	s.broadcaster.SendNotification(notification.MemberID, map[string]interface{}{
		"id":        notification.ID,
		"type":      notification.Type,
		"title":     notification.Title,
		"message":   notification.Message,
		"data":      notification.Data,
		"read":      notification.Read,
		"createdAt": notification.CreatedAt,
	})
}

// pushUnreadCount refreshes and pushes the unread count for a member
func (s *Service) pushUnreadCount(ctx context.Context, memberID string) {
	if s.broadcaster == nil {
		return
	}
	total, unread, err := s.notificationRepo.CountByMemberID(ctx, memberID)
	if err != nil {
		return
	}
	s.broadcaster.SendNotificationCount(memberID, total, unread)
}

// deliver persists a notification, invalidates the cached feed and pushes it out
func (s *Service) deliver(ctx context.Context, notification *repository.Notification) error {
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return err
	}

	if s.feed != nil {
		s.feed.Invalidate(notification.MemberID)
	}

	s.sendWebSocketNotification(notification)
	s.pushUnreadCount(ctx, notification.MemberID)

	return nil
}

// ============================================
// Status Change Notifications
// ============================================

// SendStatusChangeRequested notifies the target member of a pending request
func (s *Service) SendStatusChangeRequested(ctx context.Context, targetID, initiatorName, fromStatus, toStatus, requestID string) error {
	if targetID == "" {
		return nil
	}

	notification := &repository.Notification{
		MemberID: targetID,
		Type:     TypeStatusChangeRequested,
		Title:    "Status Change Requested",
		Message:  fmt.Sprintf("%s requested to change your status from %s to %s", initiatorName, fromStatus, toStatus),
		Read:     false,
		Data: map[string]interface{}{
			"requestId":  requestID,
			"fromStatus": fromStatus,
			"toStatus":   toStatus,
			"action":     "view_request",
		},
	}

	return s.deliver(ctx, notification)
}

// SendStatusChangeAccepted notifies the initiator that the request was accepted
func (s *Service) SendStatusChangeAccepted(ctx context.Context, initiatorID, targetName, toStatus, requestID string) error {
	if initiatorID == "" {
		return nil
	}

	notification := &repository.Notification{
		MemberID: initiatorID,
		Type:     TypeStatusChangeAccepted,
		Title:    "Status Change Accepted",
		Message:  fmt.Sprintf("%s accepted the status change to %s", targetName, toStatus),
		Read:     false,
		Data: map[string]interface{}{
			"requestId": requestID,
			"toStatus":  toStatus,
		},
	}

	return s.deliver(ctx, notification)
}

// SendStatusChangeRejected notifies the initiator that the request was rejected
func (s *Service) SendStatusChangeRejected(ctx context.Context, initiatorID, targetName, toStatus, requestID string) error {
	if initiatorID == "" {
		return nil
	}

	notification := &repository.Notification{
		MemberID: initiatorID,
		Type:     TypeStatusChangeRejected,
		Title:    "Status Change Rejected",
		Message:  fmt.Sprintf("%s rejected the status change to %s", targetName, toStatus),
		Read:     false,
		Data: map[string]interface{}{
			"requestId": requestID,
			"toStatus":  toStatus,
		},
	}

	return s.deliver(ctx, notification)
}

// SendStatusChanged notifies a member that an admin changed their status directly
func (s *Service) SendStatusChanged(ctx context.Context, memberID, changedByName, fromStatus, toStatus string) error {
	if memberID == "" {
		return nil
	}

	notification := &repository.Notification{
		MemberID: memberID,
		Type:     TypeStatusChanged,
		Title:    "Membership Status Changed",
		Message:  fmt.Sprintf("%s changed your status from %s to %s", changedByName, fromStatus, toStatus),
		Read:     false,
		Data: map[string]interface{}{
			"fromStatus": fromStatus,
			"toStatus":   toStatus,
		},
	}

	return s.deliver(ctx, notification)
}

// SendRequestPendingReminder reminds the target of a request awaiting a decision
func (s *Service) SendRequestPendingReminder(ctx context.Context, targetID, initiatorName, toStatus, requestID string, age time.Duration) error {
	if targetID == "" {
		return nil
	}

	days := int(age.Hours() / 24)

	notification := &repository.Notification{
		MemberID: targetID,
		Type:     TypeRequestPending,
		Title:    "Pending Status Request",
		Message:  fmt.Sprintf("Request by %s to set your status to %s has been pending for %d days", initiatorName, toStatus, days),
		Read:     false,
		Data: map[string]interface{}{
			"requestId": requestID,
			"toStatus":  toStatus,
			"action":    "view_request",
		},
	}

	return s.deliver(ctx, notification)
}

// ============================================
// Event & Post Notifications
// ============================================

// SendEventReminder notifies a member of an upcoming event
func (s *Service) SendEventReminder(ctx context.Context, memberID, eventTitle, eventID string, startsAt time.Time) error {
	if memberID == "" {
		return nil
	}

	notification := &repository.Notification{
		MemberID: memberID,
		Type:     TypeEventReminder,
		Title:    "Upcoming Event",
		Message:  fmt.Sprintf("Event %q starts at %s", eventTitle, startsAt.Format("02 Jan 15:04")),
		Read:     false,
		Data: map[string]interface{}{
			"eventId": eventID,
			"action":  "view_event",
		},
	}

	return s.deliver(ctx, notification)
}

// SendEventCreated notifies members of a new event
func (s *Service) SendEventCreated(ctx context.Context, memberIDs []string, creatorID, eventTitle, eventID string) error {
	var errs []error

	for _, memberID := range memberIDs {
		if memberID == "" || memberID == creatorID {
			continue
		}

		notification := &repository.Notification{
			MemberID: memberID,
			Type:     TypeEventCreated,
			Title:    "New Event",
			Message:  fmt.Sprintf("New event: %s", eventTitle),
			Read:     false,
			Data: map[string]interface{}{
				"eventId": eventID,
				"action":  "view_event",
			},
		}

		if err := s.deliver(ctx, notification); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to send %d event notifications", len(errs))
	}
	return nil
}

// SendPostCreated notifies members of a new forum post
func (s *Service) SendPostCreated(ctx context.Context, memberIDs []string, authorID, authorName, postTitle, postID string) error {
	var errs []error

	for _, memberID := range memberIDs {
		if memberID == "" || memberID == authorID {
			continue
		}

		notification := &repository.Notification{
			MemberID: memberID,
			Type:     TypePostCreated,
			Title:    "New Forum Post",
			Message:  fmt.Sprintf("%s posted: %s", authorName, postTitle),
			Read:     false,
			Data: map[string]interface{}{
				"postId": postID,
				"action": "view_post",
			},
		}

		if err := s.deliver(ctx, notification); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to send %d post notifications", len(errs))
	}
	return nil
}

// SendWelcome greets a newly registered member
func (s *Service) SendWelcome(ctx context.Context, memberID, name string) error {
	if memberID == "" {
		return nil
	}

	notification := &repository.Notification{
		MemberID: memberID,
		Type:     TypeWelcome,
		Title:    "Welcome",
		Message:  fmt.Sprintf("Welcome to the roster, %s!", name),
		Read:     false,
		Data:     map[string]interface{}{},
	}

	return s.deliver(ctx, notification)
}

// ============================================
// Read State
// ============================================

// MarkAsRead marks one notification read and propagates the change
func (s *Service) MarkAsRead(ctx context.Context, memberID, notificationID string) error {
	if err := s.notificationRepo.MarkAsRead(ctx, notificationID); err != nil {
		return err
	}

	if s.feed != nil {
		s.feed.Invalidate(memberID)
	}
	if s.broadcaster != nil {
		s.broadcaster.SendNotificationRead(memberID, notificationID)
	}
	s.pushUnreadCount(ctx, memberID)

	return nil
}

// MarkAllAsRead marks every notification of a member read
func (s *Service) MarkAllAsRead(ctx context.Context, memberID string) error {
	if err := s.notificationRepo.MarkAllAsRead(ctx, memberID); err != nil {
		return err
	}

	if s.feed != nil {
		s.feed.Invalidate(memberID)
	}
	s.pushUnreadCount(ctx, memberID)

	return nil
}
