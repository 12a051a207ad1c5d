package db

import (
	"context"
	"io"

	"mixtape-backend-go/internal/models"
)

// Cursor is an opaque pagination position marking where the next page of a
// feed query should resume. The Firestore implementation stores the
// document snapshot of the last item in the fetched page; fakes may store
// anything.
type Cursor interface{}

// TailEvent is one notification from the feed tail subscription: a newly
// added item, possibly flagged as a pending local write that has not yet
// been committed by the store.
type TailEvent struct {
	Item             *models.ShareItem
	HasPendingWrites bool
}

// TailHandler consumes tail subscription events.
type TailHandler func(TailEvent)

// ShareRepository defines storage operations for shared items and their
// per-user reaction records.
type ShareRepository interface {
	// ListPage fetches up to pageSize items ordered by creation time
	// descending, resuming strictly after the given cursor (nil for the
	// first page). It returns the items, a cursor positioned after the
	// last returned item (nil when the page is empty), and an error.
	ListPage(ctx context.Context, pageSize int, after Cursor) ([]*models.ShareItem, Cursor, error)

	Create(ctx context.Context, item *models.ShareItem) (string, error)
	GetByID(ctx context.Context, itemID string) (*models.ShareItem, error)
	Delete(ctx context.Context, itemID string) error

	// IncrementReaction atomically adjusts one emoji counter on an item.
	IncrementReaction(ctx context.Context, itemID, emoji string, delta int64) error
	GetUserReaction(ctx context.Context, itemID, userID string) (*models.Reaction, error)
	SetUserReaction(ctx context.Context, itemID, userID string, reaction *models.Reaction) error
	DeleteUserReaction(ctx context.Context, itemID, userID string) error

	// WatchLatest subscribes to additions of the single most recent item.
	// Events are delivered on an internal goroutine until the returned
	// stop function is called or ctx is canceled. A dropped stream is not
	// re-established here; reconnection is the store SDK's concern.
	WatchLatest(ctx context.Context, handler TailHandler) (stop func())
}

// InviteRepository defines storage operations for single-use invite tokens.
type InviteRepository interface {
	Get(ctx context.Context, token string) (*models.InviteToken, error)
	Create(ctx context.Context, invite *models.InviteToken) error
	// MarkUsed transitions the token to used, recording the redeemer.
	MarkUsed(ctx context.Context, token string, redeemer models.Identity) error
}

// AllowlistRepository defines storage operations for allowlist membership,
// keyed by contact address.
type AllowlistRepository interface {
	Exists(ctx context.Context, email string) (bool, error)
	Put(ctx context.Context, entry *models.AllowlistEntry) error
}

// ProfileRepository defines storage operations for user profiles.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	// Save merge-writes the profile document for userID.
	Save(ctx context.Context, userID string, profile *models.UserProfile) error
}

// BlobStore defines byte storage for uploaded files.
type BlobStore interface {
	// Put stores the reader's bytes at the given object path and returns
	// a publicly resolvable URL for them.
	Put(ctx context.Context, objectPath string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, objectPath string) error
}

// AuthRevoker terminates an identity's sessions. Used by the access gate
// to force sign-out when a session is denied.
type AuthRevoker interface {
	RevokeSessions(ctx context.Context, userID string) error
}
