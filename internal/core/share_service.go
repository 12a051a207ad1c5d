package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mixtape-backend-go/internal/db"
	"mixtape-backend-go/internal/models"
)

// Validation sentinels for share creation and mutation.
var (
	ErrFileTooLarge = fmt.Errorf("%w: file exceeds the size limit for its kind", ErrValidation)
	ErrInvalidURL   = fmt.Errorf("%w: invalid URL", ErrValidation)
	ErrInvalidEmoji = fmt.Errorf("%w: emoji is not in the reaction alphabet", ErrValidation)
)

const (
	maxAudioSize   = 20 << 20 // 20 MiB
	maxDefaultSize = 10 << 20 // 10 MiB
)

var kindExtensions = map[models.Kind][]string{
	models.KindAudio:    {".mp3", ".wav", ".m4a", ".flac", ".aac"},
	models.KindVideo:    {".mp4", ".mov", ".avi"},
	models.KindImage:    {".jpg", ".jpeg", ".png", ".gif"},
	models.KindDocument: {".pdf", ".doc", ".docx", ".txt"},
}

// ClassifyFile maps a file name to its item kind by extension.
func ClassifyFile(fileName string) models.Kind {
	ext := strings.ToLower(filepath.Ext(fileName))
	for kind, exts := range kindExtensions {
		for _, known := range exts {
			if ext == known {
				return kind
			}
		}
	}
	return models.KindOther
}

// MaxSizeFor returns the upload size limit in bytes for a kind.
func MaxSizeFor(kind models.Kind) int64 {
	if kind == models.KindAudio {
		return maxAudioSize
	}
	return maxDefaultSize
}

// shareService implements the ShareService interface.
type shareService struct {
	shares   db.ShareRepository
	blobs    db.BlobStore
	previews PreviewService
	logger   *zap.Logger
	now      func() time.Time
}

// NewShareService creates a new ShareService instance.
func NewShareService(shares db.ShareRepository, blobs db.BlobStore, previews PreviewService, logger *zap.Logger) ShareService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &shareService{
		shares:   shares,
		blobs:    blobs,
		previews: previews,
		logger:   logger,
		now:      time.Now,
	}
}

// UploadFile validates, stores and records a file share. Size validation
// happens before any store or blob write; a file exactly at its kind's
// limit is accepted, one byte over is rejected.
func (s *shareService) UploadFile(ctx context.Context, owner models.Identity, fileName string, size int64, r io.Reader) (*models.ShareItem, error) {
	if fileName == "" {
		return nil, fmt.Errorf("%w: file name is required", ErrValidation)
	}
	kind := ClassifyFile(fileName)
	if limit := MaxSizeFor(kind); size > limit {
		return nil, fmt.Errorf("%w: %s file of %d bytes exceeds %d byte limit", ErrFileTooLarge, kind, size, limit)
	}

	objectPath := fmt.Sprintf("uploads/%s/%s_%s", owner.UID, uuid.NewString(), fileName)
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName)))
	fileURL, err := s.blobs.Put(ctx, objectPath, r, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store file bytes: %w", err)
	}

	item := &models.ShareItem{
		OwnerID:   owner.UID,
		OwnerName: owner.DisplayName,
		Kind:      kind,
		FileName:  fileName,
		FileURL:   fileURL,
		FilePath:  objectPath,
		FileSize:  size,
		Reactions: models.ZeroReactions(),
	}
	if _, err := s.shares.Create(ctx, item); err != nil {
		// The record is the user-visible contract; orphaned bytes are
		// cleaned up best-effort.
		if delErr := s.blobs.Delete(ctx, objectPath); delErr != nil {
			s.logger.Warn("Failed to clean up orphaned upload bytes",
				zap.String("objectPath", objectPath), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to create upload record: %w", err)
	}
	return item, nil
}

// ShareLink validates and records a link share, attaching best-effort
// preview metadata.
func (s *shareService) ShareLink(ctx context.Context, owner models.Identity, rawURL string) (*models.ShareItem, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	item := &models.ShareItem{
		OwnerID:   owner.UID,
		OwnerName: owner.DisplayName,
		Kind:      models.KindLink,
		LinkURL:   rawURL,
		LinkTitle: parsed.Hostname(),
		Reactions: models.ZeroReactions(),
	}

	if s.previews != nil {
		if preview := s.previews.FetchPreview(ctx, rawURL); preview != nil {
			item.LinkTitle = preview.Title
			item.LinkDescription = preview.Description
			item.LinkImage = preview.Image
			item.LinkDomain = preview.Domain
			item.LinkType = preview.Type
		}
	}

	if _, err := s.shares.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create link record: %w", err)
	}
	return item, nil
}

// SetReaction toggles the user's reaction on an item. Applying the same
// emoji twice removes it; switching emojis decrements the old counter once
// and increments the new one once. The decrement-old/increment-new pair is
// not a single store transaction; a failure between the two steps can
// leave the counters briefly inconsistent with the per-user record.
func (s *shareService) SetReaction(ctx context.Context, itemID string, user models.Identity, emoji string) error {
	if !models.AllowedEmoji(emoji) {
		return fmt.Errorf("%w: %q", ErrInvalidEmoji, emoji)
	}
	if itemID == "" {
		return fmt.Errorf("%w: item id is required", ErrValidation)
	}

	current, err := s.shares.GetUserReaction(ctx, itemID, user.UID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("failed to read current reaction: %w", err)
	}

	// Same emoji again: toggle off.
	if current != nil && current.Emoji == emoji {
		if err := s.shares.IncrementReaction(ctx, itemID, emoji, -1); err != nil {
			return err
		}
		return s.shares.DeleteUserReaction(ctx, itemID, user.UID)
	}

	if current != nil {
		if err := s.shares.IncrementReaction(ctx, itemID, current.Emoji, -1); err != nil {
			return err
		}
	}
	if err := s.shares.IncrementReaction(ctx, itemID, emoji, 1); err != nil {
		return err
	}
	return s.shares.SetUserReaction(ctx, itemID, user.UID, &models.Reaction{
		Emoji:     emoji,
		UserName:  user.DisplayName,
		Timestamp: s.now().UTC(),
	})
}

// DeleteItem removes an item owned by the requester. The record deletion
// is the user-visible contract; backing bytes for non-link kinds are
// deleted best-effort afterwards, and a failure there (the object may
// already be gone) is logged and swallowed.
func (s *shareService) DeleteItem(ctx context.Context, itemID, requesterID string) error {
	item, err := s.shares.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: id '%s'", ErrItemNotFound, itemID)
		}
		return fmt.Errorf("failed to load item for deletion: %w", err)
	}
	if item.OwnerID != requesterID {
		return fmt.Errorf("%w: only the owner may delete an item", ErrForbiddenAccess)
	}

	if err := s.shares.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete item '%s': %w", itemID, err)
	}

	if item.Kind != models.KindLink && item.FilePath != "" {
		if err := s.blobs.Delete(ctx, item.FilePath); err != nil {
			s.logger.Warn("File bytes may already be deleted from storage",
				zap.String("itemID", itemID), zap.String("objectPath", item.FilePath), zap.Error(err))
		}
	}
	return nil
}
