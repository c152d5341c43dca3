package drivers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// sidecar is written next to each stored object so the content type and
// original name survive without a database table.
type sidecar struct {
	ContentType string `json:"contentType"`
}

// LocalDriver stores objects on local disk, fanning keys out over a two-level
// directory tree so a busy store does not end up with one flat directory.
type LocalDriver struct {
	BaseDir   string
	PublicURL string
}

// NewLocalDriver creates the base directory if needed. publicURL is the URL
// prefix the HTTP layer serves stored files under (e.g. /api/files).
func NewLocalDriver(baseDir, publicURL string) (*LocalDriver, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &LocalDriver{BaseDir: baseDir, PublicURL: publicURL}, nil
}

// fanout places a key at aa/bb/<key> using its first four characters.
func (d *LocalDriver) fanout(key string) string {
	if len(key) < 4 {
		return key
	}
	return filepath.Join(key[0:2], key[2:4], key)
}

func (d *LocalDriver) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	fullPath := filepath.Join(d.BaseDir, d.fanout(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create object file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, body); err != nil {
		file.Close()
		os.Remove(fullPath)
		return fmt.Errorf("failed to write object content: %w", err)
	}

	meta, err := json.Marshal(sidecar{ContentType: contentType})
	if err != nil {
		os.Remove(fullPath)
		return fmt.Errorf("failed to encode sidecar: %w", err)
	}
	if err := os.WriteFile(fullPath+".meta", meta, 0o644); err != nil {
		os.Remove(fullPath)
		return fmt.Errorf("failed to write sidecar: %w", err)
	}

	return nil
}

func (d *LocalDriver) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	fullPath := filepath.Join(d.BaseDir, d.fanout(key))

	f, err := os.Open(fullPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open object: %w", err)
	}

	contentType := "application/octet-stream"
	if raw, err := os.ReadFile(fullPath + ".meta"); err == nil {
		var meta sidecar
		if json.Unmarshal(raw, &meta) == nil && meta.ContentType != "" {
			contentType = meta.ContentType
		}
	}

	return f, contentType, nil
}

func (d *LocalDriver) Remove(ctx context.Context, key string) error {
	fullPath := filepath.Join(d.BaseDir, d.fanout(key))

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove object: %w", err)
	}
	if err := os.Remove(fullPath + ".meta"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove sidecar: %w", err)
	}
	return nil
}

func (d *LocalDriver) URL(ctx context.Context, key string, expires time.Duration) (string, error) {
	// Local files are served by our own HTTP handler; expiry does not apply.
	return d.PublicURL + "/" + key, nil
}
