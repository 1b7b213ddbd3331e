package notification

import (
	"context"
	"sync"
	"time"

	"taskboard/internal/domain"
)

// FeedStore is the per-user persistence surface the feed reads and
// mutates. Implementations are already scoped to one user.
type FeedStore interface {
	List(ctx context.Context, limit int, before *time.Time) ([]domain.Notification, error)
	SetRead(ctx context.Context, id int64, read bool) error
	MarkAllRead(ctx context.Context) error
	ClearAll(ctx context.Context) error
}

// NewUserFeedStore scopes a NotificationStore to a single user.
func NewUserFeedStore(store NotificationStore, userID int64) FeedStore {
	return &userFeedStore{store: store, userID: userID}
}

type userFeedStore struct {
	store  NotificationStore
	userID int64
}

func (s *userFeedStore) List(ctx context.Context, limit int, before *time.Time) ([]domain.Notification, error) {
	return s.store.ListByUser(ctx, s.userID, limit, before)
}

func (s *userFeedStore) SetRead(ctx context.Context, id int64, read bool) error {
	return s.store.SetRead(ctx, id, s.userID, read)
}

func (s *userFeedStore) MarkAllRead(ctx context.Context) error {
	return s.store.MarkAllRead(ctx, s.userID)
}

func (s *userFeedStore) ClearAll(ctx context.Context) error {
	return s.store.DeleteAllForUser(ctx, s.userID)
}

// Feed is one user's notification feed: cursor-paginated items, realtime
// prepends and optimistic mutations with rollback. The cursor is the
// created_at of the oldest loaded item, so newly inserted rows at the
// head never shift the next page.
type Feed struct {
	store    FeedStore
	pageSize int

	mu          sync.Mutex
	items       []domain.Notification
	seen        map[int64]struct{}
	pending     []domain.Notification // inserts that raced an in-flight Load
	cursor      *time.Time
	hasMore     bool
	loading     bool
	loadingMore bool

	unsubscribe func()
}

func NewFeed(store FeedStore, pageSize int) *Feed {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Feed{
		store:    store,
		pageSize: pageSize,
		seen:     make(map[int64]struct{}),
	}
}

// BindSubscription records the realtime-channel release; Close calls it.
func (f *Feed) BindSubscription(unsubscribe func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubscribe = unsubscribe
}

// Close releases the realtime subscription. Loaded items stay readable.
func (f *Feed) Close() {
	f.mu.Lock()
	unsub := f.unsubscribe
	f.unsubscribe = nil
	f.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Load fetches the first page, replacing current state on success. A
// failed load keeps already-loaded items visible.
func (f *Feed) Load(ctx context.Context) error {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return nil
	}
	f.loading = true
	f.mu.Unlock()

	items, err := f.store.List(ctx, f.pageSize, nil)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	if err != nil {
		// racing inserts are already in items; nothing to restore
		f.pending = nil
		return err
	}

	// copy into feed-owned storage: optimistic mutations write to these
	// elements and must never reach through to the store's slice
	f.items = make([]domain.Notification, len(items))
	copy(f.items, items)
	f.seen = make(map[int64]struct{}, len(items))
	for _, n := range items {
		f.seen[n.ID] = struct{}{}
	}
	f.restorePending()
	f.advanceCursor(items)
	return nil
}

// LoadMore fetches the next page. A call while another is in flight, or
// when no further items exist, is ignored.
func (f *Feed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if f.loadingMore || !f.hasMore {
		f.mu.Unlock()
		return nil
	}
	f.loadingMore = true
	cursor := f.cursor
	f.mu.Unlock()

	items, err := f.store.List(ctx, f.pageSize, cursor)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadingMore = false
	if err != nil {
		return err
	}

	for _, n := range items {
		if _, ok := f.seen[n.ID]; ok {
			continue
		}
		f.seen[n.ID] = struct{}{}
		f.items = append(f.items, n)
	}
	f.advanceCursor(items)
	return nil
}

// advanceCursor must be called with the lock held, with the page just
// fetched (ordered created_at descending).
func (f *Feed) advanceCursor(page []domain.Notification) {
	f.hasMore = len(page) == f.pageSize
	if len(page) > 0 {
		last := page[len(page)-1].CreatedAt
		f.cursor = &last
	}
}

// ApplyInsert prepends a realtime-delivered item. Items already known
// (fetched by a page the push raced with) are dropped by id. An insert
// arriving while a Load is in flight is buffered too, so the page
// replacement cannot wipe it.
func (f *Feed) ApplyInsert(n domain.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.seen[n.ID]; ok {
		return
	}
	f.seen[n.ID] = struct{}{}
	f.items = append([]domain.Notification{n}, f.items...)
	if f.loading {
		f.pending = append(f.pending, n)
	}
}

// restorePending must be called with the lock held, after a fresh first
// page replaced items and seen. Inserts that raced the fetch and are not
// part of the page go back on top, newest first.
func (f *Feed) restorePending() {
	for _, n := range f.pending {
		if _, ok := f.seen[n.ID]; ok {
			continue
		}
		f.seen[n.ID] = struct{}{}
		f.items = append([]domain.Notification{n}, f.items...)
	}
	f.pending = nil
}

// ToggleRead flips is_read locally first, then persists. On a failed
// write the local flip is reverted and the error surfaced.
func (f *Feed) ToggleRead(ctx context.Context, id int64, read bool) error {
	f.mu.Lock()
	idx := -1
	var prev bool
	for i := range f.items {
		if f.items[i].ID == id {
			idx = i
			prev = f.items[i].IsRead
			f.items[i].IsRead = read
			break
		}
	}
	f.mu.Unlock()

	if err := f.store.SetRead(ctx, id, read); err != nil {
		f.mu.Lock()
		if idx >= 0 && idx < len(f.items) && f.items[idx].ID == id {
			f.items[idx].IsRead = prev
		}
		f.mu.Unlock()
		return err
	}
	return nil
}

// MarkAllRead optimistically marks the whole list read. On failure the
// feed reloads from scratch instead of attempting a partial rollback.
func (f *Feed) MarkAllRead(ctx context.Context) error {
	f.mu.Lock()
	for i := range f.items {
		f.items[i].IsRead = true
	}
	f.mu.Unlock()

	if err := f.store.MarkAllRead(ctx); err != nil {
		_ = f.Load(ctx)
		return err
	}
	return nil
}

// ClearAll optimistically empties the list; on failure it reloads.
func (f *Feed) ClearAll(ctx context.Context) error {
	f.mu.Lock()
	f.items = nil
	f.seen = make(map[int64]struct{})
	f.cursor = nil
	f.hasMore = false
	f.mu.Unlock()

	if err := f.store.ClearAll(ctx); err != nil {
		_ = f.Load(ctx)
		return err
	}
	return nil
}

// Items returns a copy of the loaded items, newest first.
func (f *Feed) Items() []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Notification, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasMore
}

func (f *Feed) UnreadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for i := range f.items {
		if !f.items[i].IsRead {
			count++
		}
	}
	return count
}
