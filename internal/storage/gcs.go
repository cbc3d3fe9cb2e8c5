package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStorage implements the Storage interface for Google Cloud Storage.
// Files are prepared in a local temp directory and uploaded on commit.
type GCSStorage struct {
	client       *storage.Client
	bucket       string
	tempDir      string
	objectPrefix string
}

// NewGCSStorage creates a new GCSStorage instance
func NewGCSStorage(ctx context.Context, bucketName, objectPrefix, tempDir, credentialsFile string) (*GCSStorage, error) {
	if bucketName == "" {
		return nil, ErrMissingBucket
	}

	var client *storage.Client
	var err error

	// Create a client
	if credentialsFile != "" {
		client, err = storage.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	} else {
		// Use application default credentials
		client, err = storage.NewClient(ctx)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	if tempDir == "" {
		tempDir = filepath.Join(os.TempDir(), "showcut")
	}

	// Create local temp directory if it doesn't exist
	if err := os.MkdirAll(tempDir, os.ModePerm); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	return &GCSStorage{
		client:       client,
		bucket:       bucketName,
		tempDir:      tempDir,
		objectPrefix: objectPrefix,
	}, nil
}

// Exists checks if a non-empty object exists
func (s *GCSStorage) Exists(ctx context.Context, name string) (bool, error) {
	attrs, err := s.client.Bucket(s.bucket).Object(s.objectName(name)).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat object: %w", err)
	}
	return attrs.Size > 0, nil
}

// TempPath returns the local path for preparing name
func (s *GCSStorage) TempPath(name, suffix string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.tempDir, name+suffix), nil
}

// Commit uploads the prepared file and removes the local copy
func (s *GCSStorage) Commit(ctx context.Context, localPath, name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", localPath, err)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(ctx, time.Minute*30)
	defer cancel()

	wc := s.client.Bucket(s.bucket).Object(s.objectName(name)).NewWriter(ctx)
	wc.ContentType = "audio/mpeg"
	if _, err = io.Copy(wc, f); err != nil {
		wc.Close()
		return "", fmt.Errorf("failed to copy file to GCS: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}

	if err := os.Remove(localPath); err != nil {
		slog.Warn("Failed to remove uploaded file", "path", localPath, "error", err)
	}

	return s.Location(name), nil
}

// Location returns the gs:// URL of name
func (s *GCSStorage) Location(name string) string {
	return fmt.Sprintf("gs://%s/%s", s.bucket, s.objectName(name))
}

// Close closes the GCS client
func (s *GCSStorage) Close() error {
	return s.client.Close()
}

func (s *GCSStorage) objectName(name string) string {
	if s.objectPrefix == "" {
		return name
	}
	return path.Join(s.objectPrefix, name)
}
