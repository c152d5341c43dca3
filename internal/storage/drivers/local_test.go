package drivers

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalDriver_DirectoryFanout(t *testing.T) {
	tempDir := t.TempDir()

	driver, err := NewLocalDriver(tempDir, "/api/files")
	if err != nil {
		t.Fatalf("failed to create driver: %v", err)
	}

	ctx := context.Background()
	key := "abcdef123456.xlsx"
	content := []byte("workbook bytes")

	err = driver.Put(ctx, key, bytes.NewReader(content), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Key "abcdef123456.xlsx" should land at ab/cd/abcdef123456.xlsx
	expectedSubPath := filepath.Join("ab", "cd", key)
	fullPath := filepath.Join(tempDir, expectedSubPath)

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		t.Errorf("file not found at fanned-out path: %s", fullPath)
	}

	reader, contentType, err := driver.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reader.Close()

	if contentType != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type: %s", contentType)
	}

	got, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("failed to read content: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("content mismatch: got %q", got)
	}

	url, err := driver.URL(ctx, key, 0)
	if err != nil {
		t.Errorf("URL failed: %v", err)
	}
	if !strings.HasSuffix(url, key) || !strings.Contains(url, "/api/files") {
		t.Errorf("unexpected URL: %s", url)
	}
}

func TestLocalDriver_RemoveIsIdempotent(t *testing.T) {
	tempDir := t.TempDir()

	driver, err := NewLocalDriver(tempDir, "/api/files")
	if err != nil {
		t.Fatalf("failed to create driver: %v", err)
	}

	ctx := context.Background()
	key := "deadbeef0001.png"

	if err := driver.Put(ctx, key, strings.NewReader("image"), "image/png"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := driver.Remove(ctx, key); err != nil {
		t.Errorf("Remove failed: %v", err)
	}
	// Second remove of a missing object must not error.
	if err := driver.Remove(ctx, key); err != nil {
		t.Errorf("Remove of missing key failed: %v", err)
	}

	if _, _, err := driver.Open(ctx, key); err == nil {
		t.Errorf("expected Open to fail after Remove")
	}
}

func TestLocalDriver_ShortKeySkipsFanout(t *testing.T) {
	tempDir := t.TempDir()

	driver, err := NewLocalDriver(tempDir, "/api/files")
	if err != nil {
		t.Fatalf("failed to create driver: %v", err)
	}

	ctx := context.Background()
	if err := driver.Put(ctx, "ab", strings.NewReader("x"), "text/plain"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "ab")); err != nil {
		t.Errorf("short key not stored at base dir: %v", err)
	}
}
