package core

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"mixtape-backend-go/internal/db"
	"mixtape-backend-go/internal/models"
)

// fakeShareRepo is an in-memory db.ShareRepository. ListPage pages over the
// seeded items with an integer cursor; WatchLatest hands the registered
// handler back to the test via emitTail so tests can drive tail events.
type fakeShareRepo struct {
	mu        sync.Mutex
	items     []*models.ShareItem
	reactions map[string]map[string]*models.Reaction
	counters  map[string]map[string]int64

	listErr   error
	createErr error
	listCalls int
	nextID    int

	tailHandler db.TailHandler
	tailStopped bool
}

func newFakeShareRepo(items ...*models.ShareItem) *fakeShareRepo {
	return &fakeShareRepo{
		items:     items,
		reactions: make(map[string]map[string]*models.Reaction),
		counters:  make(map[string]map[string]int64),
	}
}

func (r *fakeShareRepo) ListPage(ctx context.Context, pageSize int, after db.Cursor) ([]*models.ShareItem, db.Cursor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.listErr != nil {
		return nil, nil, r.listErr
	}
	start := 0
	if after != nil {
		start = after.(int)
	}
	if start >= len(r.items) {
		return nil, nil, nil
	}
	end := start + pageSize
	if end > len(r.items) {
		end = len(r.items)
	}
	page := make([]*models.ShareItem, end-start)
	copy(page, r.items[start:end])
	return page, db.Cursor(end), nil
}

func (r *fakeShareRepo) Create(ctx context.Context, item *models.ShareItem) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return "", r.createErr
	}
	if item.ID == "" {
		r.nextID++
		item.ID = fmt.Sprintf("item-%d", r.nextID)
	}
	r.items = append(r.items, item)
	return item.ID, nil
}

func (r *fakeShareRepo) GetByID(ctx context.Context, itemID string) (*models.ShareItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ID == itemID {
			return item, nil
		}
	}
	return nil, db.ErrNotFound
}

func (r *fakeShareRepo) Delete(ctx context.Context, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, item := range r.items {
		if item.ID == itemID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

func (r *fakeShareRepo) IncrementReaction(ctx context.Context, itemID, emoji string, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counters[itemID] == nil {
		r.counters[itemID] = make(map[string]int64)
	}
	r.counters[itemID][emoji] += delta
	return nil
}

func (r *fakeShareRepo) GetUserReaction(ctx context.Context, itemID, userID string) (*models.Reaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reaction, ok := r.reactions[itemID][userID]; ok {
		return reaction, nil
	}
	return nil, db.ErrNotFound
}

func (r *fakeShareRepo) SetUserReaction(ctx context.Context, itemID, userID string, reaction *models.Reaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reactions[itemID] == nil {
		r.reactions[itemID] = make(map[string]*models.Reaction)
	}
	r.reactions[itemID][userID] = reaction
	return nil
}

func (r *fakeShareRepo) DeleteUserReaction(ctx context.Context, itemID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reactions[itemID], userID)
	return nil
}

func (r *fakeShareRepo) WatchLatest(ctx context.Context, handler db.TailHandler) (stop func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tailHandler = handler
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.tailStopped = true
	}
}

func (r *fakeShareRepo) emitTail(ev db.TailEvent) {
	r.mu.Lock()
	handler := r.tailHandler
	r.mu.Unlock()
	if handler != nil {
		handler(ev)
	}
}

func (r *fakeShareRepo) counter(itemID, emoji string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[itemID][emoji]
}

// memBlobStore is an in-memory db.BlobStore tracking stored object paths.
type memBlobStore struct {
	mu      sync.Mutex
	objects map[string]int64
	puts    int
	deletes []string
	putErr  error
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{objects: make(map[string]int64)}
}

func (b *memBlobStore) Put(ctx context.Context, objectPath string, r io.Reader, contentType string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.puts++
	if b.putErr != nil {
		return "", b.putErr
	}
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return "", err
	}
	b.objects[objectPath] = n
	return "https://blobs.test/" + objectPath, nil
}

func (b *memBlobStore) Delete(ctx context.Context, objectPath string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deletes = append(b.deletes, objectPath)
	if _, ok := b.objects[objectPath]; !ok {
		return db.ErrNotFound
	}
	delete(b.objects, objectPath)
	return nil
}

// memInviteRepo is an in-memory db.InviteRepository.
type memInviteRepo struct {
	mu      sync.Mutex
	invites map[string]*models.InviteToken
	getErr  error
}

func newMemInviteRepo() *memInviteRepo {
	return &memInviteRepo{invites: make(map[string]*models.InviteToken)}
}

func (r *memInviteRepo) Get(ctx context.Context, token string) (*models.InviteToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	invite, ok := r.invites[token]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *invite
	return &cp, nil
}

func (r *memInviteRepo) Create(ctx context.Context, invite *models.InviteToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.invites[invite.Token]; exists {
		return fmt.Errorf("invite token %q already exists", invite.Token)
	}
	cp := *invite
	r.invites[invite.Token] = &cp
	return nil
}

func (r *memInviteRepo) MarkUsed(ctx context.Context, token string, redeemer models.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	invite, ok := r.invites[token]
	if !ok {
		return db.ErrNotFound
	}
	now := time.Now()
	invite.Used = true
	invite.UsedBy = redeemer.UID
	invite.UsedByEmail = redeemer.Email
	invite.UsedByName = redeemer.DisplayName
	invite.UsedAt = &now
	return nil
}

// memAllowlistRepo is an in-memory db.AllowlistRepository.
type memAllowlistRepo struct {
	mu        sync.Mutex
	entries   map[string]*models.AllowlistEntry
	existsErr error
}

func newMemAllowlistRepo(emails ...string) *memAllowlistRepo {
	r := &memAllowlistRepo{entries: make(map[string]*models.AllowlistEntry)}
	for _, email := range emails {
		r.entries[email] = &models.AllowlistEntry{Email: email}
	}
	return r
}

func (r *memAllowlistRepo) Exists(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.existsErr != nil {
		return false, r.existsErr
	}
	_, ok := r.entries[email]
	return ok, nil
}

func (r *memAllowlistRepo) Put(ctx context.Context, entry *models.AllowlistEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	r.entries[entry.Email] = &cp
	return nil
}

func (r *memAllowlistRepo) get(email string) *models.AllowlistEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[email]
}

// stubProfileRepo is an in-memory db.ProfileRepository counting Get calls.
type stubProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*models.UserProfile
	getCalls int
	getErr   error
	saveErr  error
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{profiles: make(map[string]*models.UserProfile)}
}

func (r *stubProfileRepo) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	if r.getErr != nil {
		return nil, r.getErr
	}
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *profile
	return &cp, nil
}

func (r *stubProfileRepo) Save(ctx context.Context, userID string, profile *models.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *profile
	r.profiles[userID] = &cp
	return nil
}

func (r *stubProfileRepo) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getCalls
}

// countingRevoker is a db.AuthRevoker recording revoked user ids.
type countingRevoker struct {
	mu      sync.Mutex
	revoked []string
}

func (r *countingRevoker) RevokeSessions(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked = append(r.revoked, userID)
	return nil
}

func (r *countingRevoker) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.revoked)
}
