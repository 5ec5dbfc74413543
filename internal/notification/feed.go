package notification

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/orkestra-labs/roster-backend/internal/repository"
)

// refreshInterval is how often cached feed entries are re-read from the database.
const refreshInterval = 30 * time.Second

// FeedSnapshot is the cached view of one member's notifications.
type FeedSnapshot struct {
	MemberID      string
	Notifications []*repository.Notification
	Unread        int
	Total         int
	RefreshedAt   time.Time
}

type feedEntry struct {
	snapshot *FeedSnapshot

	// generation increments on every write (refresh or invalidation).
	// A refresh stamps the generation when it starts reading; if the
	// entry moved on before the read returns, the result is stale and
	// gets discarded instead of overwriting the newer state.
	generation uint64

	subscribers map[chan *FeedSnapshot]bool
}

// Feed keeps a per-member cached notification view, refreshed on a fixed
// interval and invalidated whenever the notification service writes.
type Feed struct {
	repo repository.NotificationRepository

	mu      sync.Mutex
	entries map[string]*feedEntry

	stop chan struct{}
	once sync.Once
}

// NewFeed creates a feed backed by the given repository.
func NewFeed(repo repository.NotificationRepository) *Feed {
	return &Feed{
		repo:    repo,
		entries: make(map[string]*feedEntry),
		stop:    make(chan struct{}),
	}
}

// Run refreshes all tracked members on the refresh interval until Stop.
func (f *Feed) Run(ctx context.Context) {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	log.Println("[Feed] Notification feed started")

	for {
		select {
		case <-ticker.C:
			f.refreshAll(ctx)
		case <-f.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop terminates the refresh loop.
func (f *Feed) Stop() {
	f.once.Do(func() { close(f.stop) })
}

func (f *Feed) entry(memberID string) *feedEntry {
	e, ok := f.entries[memberID]
	if !ok {
		e = &feedEntry{subscribers: make(map[chan *FeedSnapshot]bool)}
		f.entries[memberID] = e
	}
	return e
}

// Invalidate drops the cached snapshot for a member. The next Get or the
// periodic refresh rebuilds it.
func (f *Feed) Invalidate(memberID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e := f.entry(memberID)
	e.generation++
	e.snapshot = nil
}

// Get returns the cached snapshot for a member, refreshing it first when the
// cache is cold or invalidated.
func (f *Feed) Get(ctx context.Context, memberID string) (*FeedSnapshot, error) {
	f.mu.Lock()
	e := f.entry(memberID)
	if e.snapshot != nil {
		snap := e.snapshot
		f.mu.Unlock()
		return snap, nil
	}
	gen := e.generation
	f.mu.Unlock()

	return f.refresh(ctx, memberID, gen)
}

// UnreadCount returns the unread count for a member. It prefers the database
// count; when that fails it falls back to counting cached entries that have
// no read timestamp.
func (f *Feed) UnreadCount(ctx context.Context, memberID string) (int, error) {
	_, unread, err := f.repo.CountByMemberID(ctx, memberID)
	if err == nil {
		return unread, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if e, ok := f.entries[memberID]; ok && e.snapshot != nil {
		count := 0
		for _, n := range e.snapshot.Notifications {
			if n.ReadAt == nil && !n.Read {
				count++
			}
		}
		log.Printf("[Feed] ⚠️ Unread count fallback for member %s: %v", memberID, err)
		return count, nil
	}
	return 0, err
}

// Subscribe returns a channel receiving every fresh snapshot for a member.
// The caller must drain the channel and call the returned cancel func.
func (f *Feed) Subscribe(memberID string) (<-chan *FeedSnapshot, func()) {
	ch := make(chan *FeedSnapshot, 8)

	f.mu.Lock()
	e := f.entry(memberID)
	e.subscribers[ch] = true
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if e, ok := f.entries[memberID]; ok {
			delete(e.subscribers, ch)
		}
	}
	return ch, cancel
}

// refresh reads from the repository and installs the result unless the entry
// was written again while the read was in flight.
func (f *Feed) refresh(ctx context.Context, memberID string, gen uint64) (*FeedSnapshot, error) {
	notifications, err := f.repo.FindByMemberID(ctx, memberID, false)
	if err != nil {
		return nil, err
	}
	total, unread, err := f.repo.CountByMemberID(ctx, memberID)
	if err != nil {
		// Count from what we read; the list is still authoritative.
		total = len(notifications)
		unread = 0
		for _, n := range notifications {
			if !n.Read {
				unread++
			}
		}
	}

	snap := &FeedSnapshot{
		MemberID:      memberID,
		Notifications: notifications,
		Unread:        unread,
		Total:         total,
		RefreshedAt:   time.Now(),
	}

	f.mu.Lock()
	e := f.entry(memberID)
	if e.generation != gen {
		// A newer write landed while we were reading. Keep the newer
		// state and hand back what we read without caching it.
		f.mu.Unlock()
		return snap, nil
	}
	e.snapshot = snap
	subscribers := make([]chan *FeedSnapshot, 0, len(e.subscribers))
	for ch := range e.subscribers {
		subscribers = append(subscribers, ch)
	}
	f.mu.Unlock()

	for _, ch := range subscribers {
		select {
		case ch <- snap:
		default:
		}
	}
	return snap, nil
}

func (f *Feed) refreshAll(ctx context.Context) {
	f.mu.Lock()
	jobs := make(map[string]uint64, len(f.entries))
	for memberID, e := range f.entries {
		jobs[memberID] = e.generation
	}
	f.mu.Unlock()

	for memberID, gen := range jobs {
		if _, err := f.refresh(ctx, memberID, gen); err != nil {
			log.Printf("[Feed] Refresh failed for member %s: %v", memberID, err)
		}
	}
}
