package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"mixtape-backend-go/internal/models"
)

const invitesCollection = "invites"

// firestoreInviteRepository implements the InviteRepository interface using Firestore.
type firestoreInviteRepository struct {
	client *firestore.Client
}

// NewFirestoreInviteRepository creates a new instance of firestoreInviteRepository.
func NewFirestoreInviteRepository(client *firestore.Client) InviteRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for InviteRepository.")
	}
	return &firestoreInviteRepository{client: client}
}

// Get retrieves an invite token document. The token string is the document ID.
func (r *firestoreInviteRepository) Get(ctx context.Context, token string) (*models.InviteToken, error) {
	if token == "" {
		return nil, errors.New("token cannot be empty for Get operation")
	}
	docSnap, err := r.client.Collection(invitesCollection).Doc(token).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("invite '%s' not found: %w", token, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get invite '%s': %w", token, err)
	}

	var invite models.InviteToken
	if err := docSnap.DataTo(&invite); err != nil {
		return nil, fmt.Errorf("failed to decode invite data for '%s': %w", token, err)
	}
	invite.Token = docSnap.Ref.ID
	return &invite, nil
}

// Create stores a new invite token document keyed by the token string.
// Create (not Set) so a token collision fails instead of overwriting.
func (r *firestoreInviteRepository) Create(ctx context.Context, invite *models.InviteToken) error {
	if invite == nil || invite.Token == "" {
		return errors.New("invite with a non-empty token is required for Create operation")
	}
	if _, err := r.client.Collection(invitesCollection).Doc(invite.Token).Create(ctx, invite); err != nil {
		return fmt.Errorf("failed to create invite '%s': %w", invite.Token, err)
	}
	return nil
}

// MarkUsed transitions the token to used, recording the redeemer identity
// and a server-assigned redemption timestamp.
func (r *firestoreInviteRepository) MarkUsed(ctx context.Context, token string, redeemer models.Identity) error {
	if token == "" {
		return errors.New("token cannot be empty for MarkUsed operation")
	}
	_, err := r.client.Collection(invitesCollection).Doc(token).Update(ctx, []firestore.Update{
		{Path: "used", Value: true},
		{Path: "usedBy", Value: redeemer.UID},
		{Path: "usedByEmail", Value: redeemer.Email},
		{Path: "usedByName", Value: redeemer.DisplayName},
		{Path: "usedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("invite '%s' not found for MarkUsed: %w", token, ErrNotFound)
		}
		return fmt.Errorf("failed to mark invite '%s' used: %w", token, err)
	}
	return nil
}
