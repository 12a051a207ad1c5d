package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
)

// firebaseBlobStore implements BlobStore on the app's default Cloud
// Storage bucket.
type firebaseBlobStore struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

// NewFirebaseBlobStore creates a BlobStore backed by the Firebase app's
// default storage bucket.
func NewFirebaseBlobStore(ctx context.Context, app *firebase.App, bucketName string) (BlobStore, error) {
	if app == nil {
		log.Fatal("Firebase app is not initialized for BlobStore.")
	}
	storageClient, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Storage: %w", err)
	}
	bucket, err := storageClient.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("failed to get default storage bucket: %w", err)
	}
	return &firebaseBlobStore{bucket: bucket, bucketName: bucketName}, nil
}

// Put streams the reader's bytes to the object path and returns a public
// download URL for the stored object.
func (s *firebaseBlobStore) Put(ctx context.Context, objectPath string, r io.Reader, contentType string) (string, error) {
	if objectPath == "" {
		return "", errors.New("objectPath cannot be empty for Put operation")
	}

	w := s.bucket.Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		w.Close() // Best effort close; the upload already failed
		return "", fmt.Errorf("failed to write object '%s': %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object '%s': %w", objectPath, err)
	}

	publicURL := fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, url.PathEscape(objectPath))
	return publicURL, nil
}

// Delete removes the object at the given path. A missing object is
// reported as ErrNotFound so callers can treat it as already cleaned up.
func (s *firebaseBlobStore) Delete(ctx context.Context, objectPath string) error {
	if objectPath == "" {
		return errors.New("objectPath cannot be empty for Delete operation")
	}
	if err := s.bucket.Object(objectPath).Delete(ctx); err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return fmt.Errorf("object '%s' not found for deletion: %w", objectPath, ErrNotFound)
		}
		return fmt.Errorf("failed to delete object '%s': %w", objectPath, err)
	}
	return nil
}
