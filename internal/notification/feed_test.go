package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/orkestra-labs/roster-backend/internal/repository"
)

type fakeNotificationRepo struct {
	mu       sync.Mutex
	byMember map[string][]*repository.Notification
	countErr error
	findErr  error

	// onFind, when set, runs inside FindByMemberID before returning.
	onFind func()
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{byMember: make(map[string][]*repository.Notification)}
}

func (f *fakeNotificationRepo) add(memberID string, read bool) *repository.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := &repository.Notification{
		ID:        fmt.Sprintf("n-%d", len(f.byMember[memberID])+1),
		MemberID:  memberID,
		Type:      TypeStatusChanged,
		Read:      read,
		CreatedAt: time.Now(),
	}
	if read {
		now := time.Now()
		n.ReadAt = &now
	}
	f.byMember[memberID] = append(f.byMember[memberID], n)
	return n
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *repository.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = fmt.Sprintf("n-%d", len(f.byMember[n.MemberID])+1)
	n.CreatedAt = time.Now()
	f.byMember[n.MemberID] = append(f.byMember[n.MemberID], n)
	return nil
}

func (f *fakeNotificationRepo) FindByID(ctx context.Context, id string) (*repository.Notification, error) {
	return nil, nil
}

func (f *fakeNotificationRepo) FindByMemberID(ctx context.Context, memberID string, unreadOnly bool) ([]*repository.Notification, error) {
	if f.onFind != nil {
		f.onFind()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	out := make([]*repository.Notification, len(f.byMember[memberID]))
	copy(out, f.byMember[memberID])
	return out, nil
}

func (f *fakeNotificationRepo) ExistsEventReminder(ctx context.Context, eventID string) (bool, error) {
	for _, list := range f.byMember {
		for _, n := range list {
			if n.Type == TypeEventReminder && n.Data != nil && n.Data["eventId"] == eventID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeNotificationRepo) CountByMemberID(ctx context.Context, memberID string) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, 0, f.countErr
	}
	total, unread := 0, 0
	for _, n := range f.byMember[memberID] {
		total++
		if !n.Read {
			unread++
		}
	}
	return total, unread, nil
}

func (f *fakeNotificationRepo) MarkAsRead(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, list := range f.byMember {
		for _, n := range list {
			if n.ID == id {
				now := time.Now()
				n.Read = true
				n.ReadAt = &now
			}
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, memberID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, n := range f.byMember[memberID] {
		n.Read = true
		n.ReadAt = &now
	}
	return nil
}

func (f *fakeNotificationRepo) Delete(ctx context.Context, id string) error    { return nil }
func (f *fakeNotificationRepo) DeleteAll(ctx context.Context, id string) error { return nil }
func (f *fakeNotificationRepo) DeleteOlderThan(ctx context.Context, olderThan time.Time, readOnly bool) (int, error) {
	return 0, nil
}

func TestFeedGetCachesSnapshot(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.add("m1", false)
	repo.add("m1", true)

	feed := NewFeed(repo)
	ctx := context.Background()

	snap, err := feed.Get(ctx, "m1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(snap.Notifications) != 2 || snap.Unread != 1 || snap.Total != 2 {
		t.Fatalf("snapshot = %d notifications, %d unread, %d total; want 2, 1, 2",
			len(snap.Notifications), snap.Unread, snap.Total)
	}

	// A write hidden from the cache must not show up until invalidation.
	repo.add("m1", false)
	again, err := feed.Get(ctx, "m1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(again.Notifications) != 2 {
		t.Fatalf("cached snapshot has %d notifications; want 2", len(again.Notifications))
	}

	feed.Invalidate("m1")
	fresh, err := feed.Get(ctx, "m1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(fresh.Notifications) != 3 || fresh.Unread != 2 {
		t.Fatalf("refreshed snapshot = %d notifications, %d unread; want 3, 2",
			len(fresh.Notifications), fresh.Unread)
	}
}

func TestFeedStaleRefreshDiscarded(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.add("m1", false)

	feed := NewFeed(repo)
	ctx := context.Background()

	// Invalidate while a refresh is mid-read so the read result is stale.
	invalidated := false
	repo.onFind = func() {
		if !invalidated {
			invalidated = true
			feed.Invalidate("m1")
			repo.add("m1", false)
		}
	}

	snap, err := feed.Get(ctx, "m1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	// The caller still gets what the read saw.
	if len(snap.Notifications) == 0 {
		t.Fatal("stale read returned empty snapshot")
	}

	// But the cache was not overwritten: the next Get re-reads and sees
	// both notifications.
	repo.onFind = nil
	fresh, err := feed.Get(ctx, "m1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(fresh.Notifications) != 2 {
		t.Fatalf("post-invalidation snapshot has %d notifications; want 2", len(fresh.Notifications))
	}
}

func TestFeedUnreadCountFallback(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.add("m1", false)
	repo.add("m1", false)
	repo.add("m1", true)

	feed := NewFeed(repo)
	ctx := context.Background()

	if _, err := feed.Get(ctx, "m1"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	repo.mu.Lock()
	repo.countErr = errors.New("connection reset")
	repo.mu.Unlock()

	unread, err := feed.UnreadCount(ctx, "m1")
	if err != nil {
		t.Fatalf("UnreadCount fallback: %v", err)
	}
	if unread != 2 {
		t.Fatalf("fallback unread = %d; want 2", unread)
	}
}

func TestFeedUnreadCountNoCacheNoFallback(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.countErr = errors.New("connection reset")

	feed := NewFeed(repo)

	if _, err := feed.UnreadCount(context.Background(), "m1"); err == nil {
		t.Fatal("expected error when count fails and nothing is cached")
	}
}

func TestFeedSubscribeReceivesSnapshots(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.add("m1", false)

	feed := NewFeed(repo)
	ctx := context.Background()

	ch, cancel := feed.Subscribe("m1")
	defer cancel()

	if _, err := feed.Get(ctx, "m1"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	select {
	case snap := <-ch:
		if snap.MemberID != "m1" || len(snap.Notifications) != 1 {
			t.Fatalf("unexpected snapshot for %s with %d notifications", snap.MemberID, len(snap.Notifications))
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered to subscriber")
	}
}
