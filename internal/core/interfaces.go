package core

import (
	"context"
	"io"

	"mixtape-backend-go/internal/models"
)

// NameResolver resolves identity ids to display names, memoizing results
// for a short validity window.
type NameResolver interface {
	// Resolve returns the display name for identityID: the profile's
	// nickname if present and non-empty, else fallback. A cache entry
	// younger than the TTL is served without I/O.
	Resolve(ctx context.Context, identityID, fallback string) (string, error)
	// ResolveMany resolves a batch of ids, deduplicating requests,
	// serving cached entries without I/O and issuing the remaining
	// lookups concurrently.
	ResolveMany(ctx context.Context, identityIDs []string, fallbacks map[string]string) map[string]string
	// Set overwrites the cached name for identityID immediately.
	Set(identityID, name string)
	// Invalidate removes the cached entry for identityID.
	Invalidate(identityID string)
}

// ShareService covers creation and mutation of shared items.
type ShareService interface {
	UploadFile(ctx context.Context, owner models.Identity, fileName string, size int64, r io.Reader) (*models.ShareItem, error)
	ShareLink(ctx context.Context, owner models.Identity, rawURL string) (*models.ShareItem, error)
	SetReaction(ctx context.Context, itemID string, user models.Identity, emoji string) error
	DeleteItem(ctx context.Context, itemID, requesterID string) error
}

// InviteService issues single-use invitation tokens.
type InviteService interface {
	// IssueInvite creates a new unused token for the issuer and returns
	// the record plus a shareable locator embedding the token.
	IssueInvite(ctx context.Context, issuer models.Identity) (*models.InviteToken, string, error)
}

// PreviewService extracts best-effort metadata for link shares.
type PreviewService interface {
	// FetchPreview returns metadata for the URL, a minimal hostname-only
	// result on partial failure, or nil when the URL itself is
	// unparseable. It never returns an error to the caller.
	FetchPreview(ctx context.Context, rawURL string) *PreviewMetadata
}

// ProfileService reads and writes the user's display nickname.
type ProfileService interface {
	Load(ctx context.Context, identity models.Identity) (*models.UserProfile, error)
	SaveNickname(ctx context.Context, identity models.Identity, nickname string) (*models.UserProfile, error)
}
