package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"mixtape-backend-go/internal/models"
)

const (
	uploadsCollection   = "uploads"
	reactionsCollection = "reactions"
	timestampField      = "timestamp"
)

// firestoreShareRepository implements the ShareRepository interface using Firestore.
type firestoreShareRepository struct {
	client *firestore.Client
}

// NewFirestoreShareRepository creates a new instance of firestoreShareRepository.
func NewFirestoreShareRepository(client *firestore.Client) ShareRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ShareRepository.")
	}
	return &firestoreShareRepository{client: client}
}

// ListPage fetches one page of the feed ordered by creation time descending.
// The returned cursor is the snapshot of the last document in the page, so a
// subsequent call resumes strictly after it and pages never overlap.
func (r *firestoreShareRepository) ListPage(ctx context.Context, pageSize int, after Cursor) ([]*models.ShareItem, Cursor, error) {
	if pageSize <= 0 {
		return nil, nil, errors.New("pageSize must be positive for ListPage")
	}

	query := r.client.Collection(uploadsCollection).
		OrderBy(timestampField, firestore.Desc).
		Limit(pageSize)

	if after != nil {
		snap, ok := after.(*firestore.DocumentSnapshot)
		if !ok {
			return nil, nil, errors.New("cursor was not produced by this repository")
		}
		query = query.StartAfter(snap)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var items []*models.ShareItem
	var lastSnap *firestore.DocumentSnapshot
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to iterate uploads page: %w", err)
		}

		var item models.ShareItem
		if err := doc.DataTo(&item); err != nil {
			log.Printf("Error decoding upload data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		item.ID = doc.Ref.ID
		items = append(items, &item)
		lastSnap = doc
	}

	var cursor Cursor
	if lastSnap != nil {
		cursor = lastSnap
	}
	return items, cursor, nil
}

// Create adds a new upload document with an auto-generated ID. CreatedAt is
// assigned by the serverTimestamp tag on the model.
func (r *firestoreShareRepository) Create(ctx context.Context, item *models.ShareItem) (string, error) {
	docRef := r.client.Collection(uploadsCollection).NewDoc()
	item.ID = docRef.ID
	if _, err := docRef.Create(ctx, item); err != nil {
		return "", fmt.Errorf("failed to create upload: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves one upload document by its ID.
func (r *firestoreShareRepository) GetByID(ctx context.Context, itemID string) (*models.ShareItem, error) {
	if itemID == "" {
		return nil, errors.New("itemID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(uploadsCollection).Doc(itemID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("upload with ID '%s' not found: %w", itemID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get upload with ID '%s': %w", itemID, err)
	}

	var item models.ShareItem
	if err := docSnap.DataTo(&item); err != nil {
		return nil, fmt.Errorf("failed to decode upload data for ID '%s': %w", itemID, err)
	}
	item.ID = docSnap.Ref.ID
	return &item, nil
}

// Delete removes an upload document. Reaction subcollection documents and
// backing bytes are the service layer's concern.
func (r *firestoreShareRepository) Delete(ctx context.Context, itemID string) error {
	if itemID == "" {
		return errors.New("itemID cannot be empty for Delete operation")
	}
	_, err := r.client.Collection(uploadsCollection).Doc(itemID).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("upload with ID '%s' not found for deletion: %w", itemID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete upload with ID '%s': %w", itemID, err)
	}
	return nil
}

// IncrementReaction atomically adjusts one emoji counter on an item using a
// Firestore field increment.
func (r *firestoreShareRepository) IncrementReaction(ctx context.Context, itemID, emoji string, delta int64) error {
	if itemID == "" {
		return errors.New("itemID cannot be empty for IncrementReaction operation")
	}
	_, err := r.client.Collection(uploadsCollection).Doc(itemID).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{"reactions", emoji}, Value: firestore.Increment(delta)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("upload with ID '%s' not found for reaction update: %w", itemID, ErrNotFound)
		}
		return fmt.Errorf("failed to increment reaction %q on upload '%s': %w", emoji, itemID, err)
	}
	return nil
}

// GetUserReaction retrieves the per-user reaction record for an item.
func (r *firestoreShareRepository) GetUserReaction(ctx context.Context, itemID, userID string) (*models.Reaction, error) {
	if itemID == "" || userID == "" {
		return nil, errors.New("itemID and userID cannot be empty for GetUserReaction operation")
	}
	docSnap, err := r.reactionDoc(itemID, userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("reaction for user '%s' on upload '%s' not found: %w", userID, itemID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get reaction for user '%s' on upload '%s': %w", userID, itemID, err)
	}

	var reaction models.Reaction
	if err := docSnap.DataTo(&reaction); err != nil {
		return nil, fmt.Errorf("failed to decode reaction data for user '%s' on upload '%s': %w", userID, itemID, err)
	}
	return &reaction, nil
}

// SetUserReaction upserts the per-user reaction record for an item.
func (r *firestoreShareRepository) SetUserReaction(ctx context.Context, itemID, userID string, reaction *models.Reaction) error {
	if itemID == "" || userID == "" {
		return errors.New("itemID and userID cannot be empty for SetUserReaction operation")
	}
	if _, err := r.reactionDoc(itemID, userID).Set(ctx, reaction); err != nil {
		return fmt.Errorf("failed to set reaction for user '%s' on upload '%s': %w", userID, itemID, err)
	}
	return nil
}

// DeleteUserReaction removes the per-user reaction record for an item.
// Deleting a record that does not exist is a no-op at the store level.
func (r *firestoreShareRepository) DeleteUserReaction(ctx context.Context, itemID, userID string) error {
	if itemID == "" || userID == "" {
		return errors.New("itemID and userID cannot be empty for DeleteUserReaction operation")
	}
	if _, err := r.reactionDoc(itemID, userID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete reaction for user '%s' on upload '%s': %w", userID, itemID, err)
	}
	return nil
}

func (r *firestoreShareRepository) reactionDoc(itemID, userID string) *firestore.DocumentRef {
	return r.client.Collection(uploadsCollection).Doc(itemID).Collection(reactionsCollection).Doc(userID)
}

// WatchLatest subscribes to snapshots of the single newest upload. Limiting
// the query to one document bounds the continuous read cost to O(1)
// regardless of collection size; the trade-off is that updates and deletes
// of older items are not observed through this channel.
//
// The Admin SDK's snapshot stream always reflects committed state, so
// events are delivered with HasPendingWrites=false. Events stop when the
// returned function is called, ctx is canceled, or the stream errors; the
// stream is not re-established here.
func (r *firestoreShareRepository) WatchLatest(ctx context.Context, handler TailHandler) (stop func()) {
	watchCtx, cancel := context.WithCancel(ctx)
	snapIter := r.client.Collection(uploadsCollection).
		OrderBy(timestampField, firestore.Desc).
		Limit(1).
		Snapshots(watchCtx)

	go func() {
		defer snapIter.Stop()
		for {
			snap, err := snapIter.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("Feed tail subscription ended: %v", err)
				}
				return
			}
			for _, change := range snap.Changes {
				if change.Kind != firestore.DocumentAdded {
					continue
				}
				var item models.ShareItem
				if err := change.Doc.DataTo(&item); err != nil {
					log.Printf("Error decoding tail upload (ID: %s): %v. Skipping.", change.Doc.Ref.ID, err)
					continue
				}
				item.ID = change.Doc.Ref.ID
				handler(TailEvent{Item: &item})
			}
		}
	}()

	return cancel
}
