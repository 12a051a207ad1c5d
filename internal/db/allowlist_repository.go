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

const allowlistCollection = "allowlist"

// firestoreAllowlistRepository implements the AllowlistRepository interface using Firestore.
type firestoreAllowlistRepository struct {
	client *firestore.Client
}

// NewFirestoreAllowlistRepository creates a new instance of firestoreAllowlistRepository.
func NewFirestoreAllowlistRepository(client *firestore.Client) AllowlistRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for AllowlistRepository.")
	}
	return &firestoreAllowlistRepository{client: client}
}

// Exists reports whether an allowlist entry exists for the contact address.
func (r *firestoreAllowlistRepository) Exists(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, errors.New("email cannot be empty for Exists operation")
	}
	_, err := r.client.Collection(allowlistCollection).Doc(email).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to check allowlist for '%s': %w", email, err)
	}
	return true, nil
}

// Put writes the allowlist entry for the entry's contact address. A repeat
// write for the same address overwrites the previous entry, which keeps
// invite redemption idempotent at this level.
func (r *firestoreAllowlistRepository) Put(ctx context.Context, entry *models.AllowlistEntry) error {
	if entry == nil || entry.Email == "" {
		return errors.New("entry with a non-empty email is required for Put operation")
	}
	if _, err := r.client.Collection(allowlistCollection).Doc(entry.Email).Set(ctx, entry); err != nil {
		return fmt.Errorf("failed to put allowlist entry for '%s': %w", entry.Email, err)
	}
	return nil
}
