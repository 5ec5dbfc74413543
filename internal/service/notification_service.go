package service

import (
	"context"

	"github.com/orkestra-labs/roster-backend/internal/notification"
	"github.com/orkestra-labs/roster-backend/internal/repository"
)

// ============================================
// Notification Service
// ============================================

type NotificationService interface {
	List(ctx context.Context, memberID string) ([]*repository.Notification, error)
	UnreadCount(ctx context.Context, memberID string) (int, error)
	MarkAsRead(ctx context.Context, memberID, notificationID string) error
	MarkAllAsRead(ctx context.Context, memberID string) error
	Delete(ctx context.Context, memberID, notificationID string) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	notifSvc         *notification.Service
	feed             *notification.Feed
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	notifSvc *notification.Service,
	feed *notification.Feed,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		notifSvc:         notifSvc,
		feed:             feed,
	}
}

// List serves the member's notifications from the cached feed.
func (s *notificationService) List(ctx context.Context, memberID string) ([]*repository.Notification, error) {
	if s.feed != nil {
		snap, err := s.feed.Get(ctx, memberID)
		if err != nil {
			return nil, err
		}
		return snap.Notifications, nil
	}
	return s.notificationRepo.FindByMemberID(ctx, memberID, false)
}

func (s *notificationService) UnreadCount(ctx context.Context, memberID string) (int, error) {
	if s.feed != nil {
		return s.feed.UnreadCount(ctx, memberID)
	}
	_, unread, err := s.notificationRepo.CountByMemberID(ctx, memberID)
	return unread, err
}

func (s *notificationService) MarkAsRead(ctx context.Context, memberID, notificationID string) error {
	n, err := s.notificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n == nil {
		return ErrNotFound
	}
	if n.MemberID != memberID {
		return ErrForbidden
	}
	return s.notifSvc.MarkAsRead(ctx, memberID, notificationID)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, memberID string) error {
	return s.notifSvc.MarkAllAsRead(ctx, memberID)
}

func (s *notificationService) Delete(ctx context.Context, memberID, notificationID string) error {
	n, err := s.notificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n == nil {
		return ErrNotFound
	}
	if n.MemberID != memberID {
		return ErrForbidden
	}
	if err := s.notificationRepo.Delete(ctx, notificationID); err != nil {
		return err
	}
	if s.feed != nil {
		s.feed.Invalidate(memberID)
	}
	return nil
}
