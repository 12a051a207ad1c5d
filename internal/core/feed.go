package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"mixtape-backend-go/internal/db"
	"mixtape-backend-go/internal/models"
)

// FeedPageSize is how many items each feed page fetch requests.
const FeedPageSize = 20

// ErrInitialLoadDone is returned when LoadInitialPage is called more than
// once on the same synchronizer.
var ErrInitialLoadDone = errors.New("initial feed page already loaded")

// Filter selects a derived view of the feed. Kind is "all" or one of the
// item kinds; DateRange is "1", "7", "30" or "all" (days back from now).
type Filter struct {
	Kind      string
	DateRange string
}

// Matches reports whether the item passes the filter, evaluating relative
// date windows against the supplied wall-clock time. The same item can
// drop out of a window purely because time passed; no re-fetch is needed.
func (f Filter) Matches(item *models.ShareItem, now time.Time) bool {
	if f.Kind != "" && f.Kind != "all" && string(item.Kind) != f.Kind {
		return false
	}
	if f.DateRange == "" || f.DateRange == "all" {
		return true
	}
	days, err := strconv.Atoi(f.DateRange)
	if err != nil || days <= 0 {
		return true
	}
	cutoff := now.AddDate(0, 0, -days)
	return item.CreatedAt.After(cutoff)
}

// FeedSynchronizer maintains the in-memory view of the shared-item feed:
// a bounded initial fetch, forward-only pagination, and a tail listener
// scoped to the single newest item that prepends new arrivals without
// re-reading the collection.
//
// Items are ordered descending by creation time; equal timestamps keep the
// order the source query or subscription delivered them in, with a tail
// arrival placed in front. No item id appears twice.
type FeedSynchronizer struct {
	shares   db.ShareRepository
	logger   *zap.Logger
	pageSize int
	now      func() time.Time

	mu            sync.Mutex
	items         []*models.ShareItem
	ids           map[string]struct{}
	cursor        db.Cursor
	exhausted     bool
	initialLoaded bool
	fetching      bool
	tailActive    bool
	closed        bool
	stopTail      func()
}

// NewFeedSynchronizer creates a feed synchronizer over the share repository.
func NewFeedSynchronizer(shares db.ShareRepository, logger *zap.Logger) *FeedSynchronizer {
	if shares == nil {
		panic("FeedSynchronizer requires a non-nil ShareRepository")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedSynchronizer{
		shares:   shares,
		logger:   logger,
		pageSize: FeedPageSize,
		now:      time.Now,
		ids:      make(map[string]struct{}),
	}
}

// LoadInitialPage fetches the first page and, on success, establishes the
// tail subscription. It runs exactly once per synchronizer lifetime; the
// subscription is only started after the page resolves, so no live update
// can be applied before the base page exists. A failed load leaves the
// feed empty and may be retried explicitly by the caller.
func (s *FeedSynchronizer) LoadInitialPage(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.New("feed synchronizer is closed")
	}
	if s.initialLoaded {
		s.mu.Unlock()
		return ErrInitialLoadDone
	}
	if s.fetching {
		s.mu.Unlock()
		return errors.New("initial feed load already in flight")
	}
	s.fetching = true
	s.mu.Unlock()

	items, cursor, err := s.shares.ListPage(ctx, s.pageSize, nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetching = false
	if err != nil {
		return fmt.Errorf("initial feed load failed: %w", err)
	}
	if s.closed {
		// Torn down while the fetch was outstanding; drop the result.
		return nil
	}

	s.items = s.items[:0]
	s.ids = make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, dup := s.ids[item.ID]; dup {
			continue
		}
		s.items = append(s.items, item)
		s.ids[item.ID] = struct{}{}
	}
	s.cursor = cursor
	s.exhausted = len(items) < s.pageSize
	s.initialLoaded = true

	// The subscription outlives the triggering request; only Close ends it.
	s.stopTail = s.shares.WatchLatest(context.WithoutCancel(ctx), s.applyTailEvent)
	s.tailActive = true
	return nil
}

// LoadNextPage fetches the page strictly after the current cursor and
// appends it. It is a no-op when nothing has been fetched yet, the feed is
// exhausted, or a fetch is already in flight. A failed fetch leaves the
// prior state unchanged and is safe to retry.
func (s *FeedSynchronizer) LoadNextPage(ctx context.Context) error {
	s.mu.Lock()
	if s.closed || !s.initialLoaded || s.cursor == nil || s.exhausted || s.fetching {
		s.mu.Unlock()
		return nil
	}
	s.fetching = true
	cursor := s.cursor
	s.mu.Unlock()

	items, next, err := s.shares.ListPage(ctx, s.pageSize, cursor)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetching = false
	if err != nil {
		return fmt.Errorf("feed page load failed: %w", err)
	}
	if s.closed {
		return nil
	}

	// Pages do not overlap because the cursor is exclusive; the id check
	// only guards against an item surfacing through both a page fetch and
	// the tail listener.
	for _, item := range items {
		if _, dup := s.ids[item.ID]; dup {
			continue
		}
		s.items = append(s.items, item)
		s.ids[item.ID] = struct{}{}
	}
	if next != nil {
		s.cursor = next
	}
	s.exhausted = len(items) < s.pageSize
	return nil
}

// applyTailEvent handles one tail subscription notification. Only
// committed additions are applied; an id already present (from the initial
// page, a prior notification, or a locally-originated write echoed back)
// is ignored.
func (s *FeedSynchronizer) applyTailEvent(ev db.TailEvent) {
	if ev.Item == nil || ev.HasPendingWrites {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.initialLoaded {
		return
	}
	if _, dup := s.ids[ev.Item.ID]; dup {
		return
	}
	s.items = append([]*models.ShareItem{ev.Item}, s.items...)
	s.ids[ev.Item.ID] = struct{}{}
}

// Items returns a snapshot of the materialized feed, newest first.
func (s *FeedSynchronizer) Items() []*models.ShareItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.ShareItem, len(s.items))
	copy(out, s.items)
	return out
}

// Filtered derives a filtered view of the feed without mutating it.
func (s *FeedSynchronizer) Filtered(f Filter) []*models.ShareItem {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.ShareItem
	for _, item := range s.items {
		if f.Matches(item, now) {
			out = append(out, item)
		}
	}
	return out
}

// Exhausted reports whether the final page has been reached.
func (s *FeedSynchronizer) Exhausted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exhausted
}

// TailActive reports whether the live tail subscription is established.
func (s *FeedSynchronizer) TailActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tailActive
}

// Close tears the synchronizer down. In-flight fetch completions landing
// after Close are dropped.
func (s *FeedSynchronizer) Close() {
	s.mu.Lock()
	stop := s.stopTail
	s.stopTail = nil
	s.closed = true
	s.tailActive = false
	s.mu.Unlock()
	if stop != nil {
		stop()
	}
}
