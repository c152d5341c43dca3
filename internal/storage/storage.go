package storage

import (
	"context"
	"io"
	"time"
)

// Driver is the binary storage backend behind the file store. Implementations
// exist for local disk and S3-compatible object stores.
type Driver interface {
	// Put writes the content under the given key, replacing any previous
	// object with that key.
	Put(ctx context.Context, key string, body io.Reader, contentType string) error

	// Open returns a reader for the stored object and its content type.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)

	// Remove deletes the object. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// URL returns a public-facing URL for the object. For private backends a
	// non-zero expiry produces a presigned URL.
	URL(ctx context.Context, key string, expires time.Duration) (string, error)
}
