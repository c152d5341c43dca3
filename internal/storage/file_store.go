package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// StoredFile describes an object held by the file store. Key is the stable
// handle persisted by callers (e.g. a product type's archived workbook).
type StoredFile struct {
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	StoredAt    time.Time `json:"storedAt"`
}

// FileStore hands out opaque uuid-based keys for uploaded binaries and keeps
// the driver choice out of the services that archive files.
type FileStore struct {
	driver Driver
}

func NewFileStore(driver Driver) *FileStore {
	return &FileStore{driver: driver}
}

// Store saves the content under a fresh key derived from the original
// filename's extension and returns the file metadata.
func (s *FileStore) Store(ctx context.Context, filename string, body io.Reader, size int64, contentType string) (*StoredFile, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := uuid.New().String() + filepath.Ext(filename)

	if err := s.driver.Put(ctx, key, body, contentType); err != nil {
		return nil, fmt.Errorf("storage driver failed: %w", err)
	}

	url, err := s.driver.URL(ctx, key, 0)
	if err != nil {
		if remErr := s.driver.Remove(ctx, key); remErr != nil {
			slog.WarnContext(ctx, "failed to clean up orphaned file", "key", key, "error", remErr)
		}
		return nil, fmt.Errorf("failed to generate URL: %w", err)
	}

	slog.InfoContext(ctx, "file stored", "key", key, "name", filename, "size", size)

	return &StoredFile{
		Key:         key,
		Name:        filename,
		URL:         url,
		Size:        size,
		ContentType: contentType,
		StoredAt:    time.Now().UTC(),
	}, nil
}

// Open streams a stored object back along with its content type.
func (s *FileStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return s.driver.Open(ctx, key)
}

// Delete removes a stored object.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	return s.driver.Remove(ctx, key)
}
