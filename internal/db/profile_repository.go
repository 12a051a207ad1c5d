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

const userProfilesCollection = "userProfiles"

// firestoreProfileRepository implements the ProfileRepository interface using Firestore.
type firestoreProfileRepository struct {
	client *firestore.Client
}

// NewFirestoreProfileRepository creates a new instance of firestoreProfileRepository.
func NewFirestoreProfileRepository(client *firestore.Client) ProfileRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ProfileRepository.")
	}
	return &firestoreProfileRepository{client: client}
}

// Get retrieves the profile document for a user.
func (r *firestoreProfileRepository) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for Get operation")
	}
	docSnap, err := r.client.Collection(userProfilesCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("profile for user '%s' not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile for user '%s': %w", userID, err)
	}

	var profile models.UserProfile
	if err := docSnap.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile data for user '%s': %w", userID, err)
	}
	return &profile, nil
}

// Save merge-writes the profile document so unrelated fields survive.
// UpdatedAt is handled by the serverTimestamp tag on the model.
func (r *firestoreProfileRepository) Save(ctx context.Context, userID string, profile *models.UserProfile) error {
	if userID == "" {
		return errors.New("userID cannot be empty for Save operation")
	}
	if _, err := r.client.Collection(userProfilesCollection).Doc(userID).Set(ctx, profile, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to save profile for user '%s': %w", userID, err)
	}
	return nil
}
