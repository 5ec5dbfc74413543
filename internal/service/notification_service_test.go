package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/orkestra-labs/roster-backend/internal/notification"
	"github.com/orkestra-labs/roster-backend/internal/repository"
)

type fakeNotifRepo struct {
	byID map[string]*repository.Notification
}

func newFakeNotifRepo() *fakeNotifRepo {
	return &fakeNotifRepo{byID: map[string]*repository.Notification{}}
}

func (f *fakeNotifRepo) Create(ctx context.Context, n *repository.Notification) error {
	if n.ID == "" {
		n.ID = "n-" + time.Now().Format("150405.000000000")
	}
	n.CreatedAt = time.Now()
	f.byID[n.ID] = n
	return nil
}

func (f *fakeNotifRepo) FindByID(ctx context.Context, id string) (*repository.Notification, error) {
	return f.byID[id], nil
}

func (f *fakeNotifRepo) FindByMemberID(ctx context.Context, memberID string, unreadOnly bool) ([]*repository.Notification, error) {
	var out []*repository.Notification
	for _, n := range f.byID {
		if n.MemberID != memberID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeNotifRepo) CountByMemberID(ctx context.Context, memberID string) (int, int, error) {
	total, unread := 0, 0
	for _, n := range f.byID {
		if n.MemberID != memberID {
			continue
		}
		total++
		if !n.Read {
			unread++
		}
	}
	return total, unread, nil
}

func (f *fakeNotifRepo) ExistsEventReminder(ctx context.Context, eventID string) (bool, error) {
	for _, n := range f.byID {
		if n.Type == notification.TypeEventReminder && n.Data != nil && n.Data["eventId"] == eventID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotifRepo) MarkAsRead(ctx context.Context, id string) error {
	n, ok := f.byID[id]
	if !ok {
		return nil
	}
	now := time.Now()
	n.Read = true
	n.ReadAt = &now
	return nil
}

func (f *fakeNotifRepo) MarkAllAsRead(ctx context.Context, memberID string) error {
	now := time.Now()
	for _, n := range f.byID {
		if n.MemberID == memberID {
			n.Read = true
			n.ReadAt = &now
		}
	}
	return nil
}

func (f *fakeNotifRepo) Delete(ctx context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeNotifRepo) DeleteAll(ctx context.Context, memberID string) error {
	for id, n := range f.byID {
		if n.MemberID == memberID {
			delete(f.byID, id)
		}
	}
	return nil
}

func (f *fakeNotifRepo) DeleteOlderThan(ctx context.Context, olderThan time.Time, readOnly bool) (int, error) {
	deleted := 0
	for id, n := range f.byID {
		if n.CreatedAt.After(olderThan) {
			continue
		}
		if readOnly && !n.Read {
			continue
		}
		delete(f.byID, id)
		deleted++
	}
	return deleted, nil
}

func notifSvc(repo repository.NotificationRepository) NotificationService {
	members := newFakeMemberRepo()
	inner := notification.NewService(repo, members)
	return NewNotificationService(repo, inner, nil)
}

func seedNotif(repo *fakeNotifRepo, id, memberID string, read bool) {
	n := &repository.Notification{
		ID:       id,
		MemberID: memberID,
		Type:     "status_change_requested",
		Title:    "Status change requested",
		Message:  "test",
		Read:     read,
	}
	if read {
		now := time.Now()
		n.ReadAt = &now
	}
	repo.byID[id] = n
}

func TestMarkAsReadSetsReadAtAndDecrementsUnread(t *testing.T) {
	ctx := context.Background()
	repo := newFakeNotifRepo()
	svc := notifSvc(repo)

	seedNotif(repo, "n-1", "m-1", false)
	seedNotif(repo, "n-2", "m-1", false)

	before, err := svc.UnreadCount(ctx, "m-1")
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if before != 2 {
		t.Fatalf("unread before = %d, want 2", before)
	}

	if err := svc.MarkAsRead(ctx, "m-1", "n-1"); err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}
	if repo.byID["n-1"].ReadAt == nil {
		t.Error("ReadAt not set after MarkAsRead")
	}

	after, err := svc.UnreadCount(ctx, "m-1")
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if after != before-1 {
		t.Errorf("unread after = %d, want %d", after, before-1)
	}

	// Marking the same notification again must not push the count below
	// the remaining unread notifications.
	if err := svc.MarkAsRead(ctx, "m-1", "n-1"); err != nil {
		t.Fatalf("second MarkAsRead: %v", err)
	}
	again, _ := svc.UnreadCount(ctx, "m-1")
	if again != after {
		t.Errorf("unread after repeat = %d, want %d", again, after)
	}
}

func TestMarkAsReadOwnership(t *testing.T) {
	ctx := context.Background()
	repo := newFakeNotifRepo()
	svc := notifSvc(repo)

	seedNotif(repo, "n-1", "m-1", false)

	if err := svc.MarkAsRead(ctx, "m-2", "n-1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign MarkAsRead err = %v, want ErrForbidden", err)
	}
	if err := svc.MarkAsRead(ctx, "m-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing MarkAsRead err = %v, want ErrNotFound", err)
	}
	if repo.byID["n-1"].Read {
		t.Error("notification marked read despite rejected calls")
	}
}

func TestMarkAllAsRead(t *testing.T) {
	ctx := context.Background()
	repo := newFakeNotifRepo()
	svc := notifSvc(repo)

	seedNotif(repo, "n-1", "m-1", false)
	seedNotif(repo, "n-2", "m-1", true)
	seedNotif(repo, "n-3", "m-2", false)

	if err := svc.MarkAllAsRead(ctx, "m-1"); err != nil {
		t.Fatalf("MarkAllAsRead: %v", err)
	}

	unread, _ := svc.UnreadCount(ctx, "m-1")
	if unread != 0 {
		t.Errorf("unread for m-1 = %d, want 0", unread)
	}
	otherUnread, _ := svc.UnreadCount(ctx, "m-2")
	if otherUnread != 1 {
		t.Errorf("unread for m-2 = %d, want 1 (untouched)", otherUnread)
	}
}

func TestDeleteNotificationOwnership(t *testing.T) {
	ctx := context.Background()
	repo := newFakeNotifRepo()
	svc := notifSvc(repo)

	seedNotif(repo, "n-1", "m-1", false)

	if err := svc.Delete(ctx, "m-2", "n-1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign Delete err = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, "m-1", "n-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := repo.byID["n-1"]; ok {
		t.Error("notification still present after Delete")
	}
}
