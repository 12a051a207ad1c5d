package db

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"mixtape-backend-go/internal/config"
)

var (
	// fsClient is the global Firestore client instance.
	fsClient *firestore.Client
	// fbAuthClient is the global Firebase Auth client instance.
	fbAuthClient *auth.Client
	// fbApp is the initialized Firebase app, kept for the storage client.
	fbApp *firebase.App
)

// InitFirebase initializes the Firebase Admin SDK and sets up the Firestore
// and Auth clients. Credentials come from the appConfig, preferring a
// service account file path, then base64-encoded JSON, then Application
// Default Credentials.
func InitFirebase(ctx context.Context, appConfig *config.Config) error {
	if appConfig == nil {
		return fmt.Errorf("InitFirebase: appConfig cannot be nil")
	}

	var credsOption option.ClientOption
	if appConfig.GoogleApplicationCredentials != "" {
		credsOption = option.WithCredentialsFile(appConfig.GoogleApplicationCredentials)
	} else if appConfig.FirebaseServiceAccountJSONBase64 != "" {
		decodedJSON, err := base64.StdEncoding.DecodeString(appConfig.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT_JSON_BASE64: %w", err)
		}
		credsOption = option.WithCredentialsJSON(decodedJSON)
	} else {
		log.Println("Initializing Firebase using Application Default Credentials (ADC).")
	}

	firebaseAppConfig := &firebase.Config{
		ProjectID:     appConfig.FirebaseProjectID,
		StorageBucket: appConfig.FirebaseStorageBucket,
	}

	var app *firebase.App
	var err error
	if credsOption != nil {
		app, err = firebase.NewApp(ctx, firebaseAppConfig, credsOption)
	} else {
		app, err = firebase.NewApp(ctx, firebaseAppConfig)
	}
	if err != nil {
		return fmt.Errorf("firebase.NewApp: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return fmt.Errorf("app.Firestore: %w", err)
	}

	authCl, err := app.Auth(ctx)
	if err != nil {
		client.Close() // Best effort close
		return fmt.Errorf("app.Auth: %w", err)
	}

	fbApp = app
	fsClient = client
	fbAuthClient = authCl
	return nil
}

// GetFirestoreClient returns the global Firestore client.
// Callers should check for nil, implying InitFirebase hasn't been called or failed.
func GetFirestoreClient() *firestore.Client {
	if fsClient == nil {
		log.Println("Warning: GetFirestoreClient called before InitFirebase or InitFirebase failed.")
	}
	return fsClient
}

// GetFirebaseAuthClient returns the global Firebase Auth client.
func GetFirebaseAuthClient() *auth.Client {
	if fbAuthClient == nil {
		log.Println("Warning: GetFirebaseAuthClient called before InitFirebase or InitFirebase failed.")
	}
	return fbAuthClient
}

// GetFirebaseApp returns the initialized Firebase app.
func GetFirebaseApp() *firebase.App {
	return fbApp
}

// firebaseAuthRevoker implements AuthRevoker on the Firebase Auth client.
type firebaseAuthRevoker struct {
	client *auth.Client
}

// NewFirebaseAuthRevoker creates an AuthRevoker backed by Firebase Auth.
func NewFirebaseAuthRevoker(client *auth.Client) AuthRevoker {
	if client == nil {
		log.Fatal("Firebase Auth client is not initialized for AuthRevoker.")
	}
	return &firebaseAuthRevoker{client: client}
}

// RevokeSessions invalidates the user's refresh tokens, forcing every
// signed-in client of that identity to re-authenticate.
func (r *firebaseAuthRevoker) RevokeSessions(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("userID cannot be empty for RevokeSessions")
	}
	if err := r.client.RevokeRefreshTokens(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens for user '%s': %w", userID, err)
	}
	return nil
}
