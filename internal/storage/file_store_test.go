package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

// mockDriver implements Driver for testing
type mockDriver struct {
	putKey      string
	putBody     []byte
	urlErr      error
	removeCalls []string
}

func (m *mockDriver) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	m.putKey = key
	content, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.putBody = content
	return nil
}

func (m *mockDriver) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return io.NopCloser(bytes.NewReader(m.putBody)), "application/test", nil
}

func (m *mockDriver) Remove(ctx context.Context, key string) error {
	m.removeCalls = append(m.removeCalls, key)
	return nil
}

func (m *mockDriver) URL(ctx context.Context, key string, expires time.Duration) (string, error) {
	if m.urlErr != nil {
		return "", m.urlErr
	}
	return "/files/" + key, nil
}

func TestFileStoreStore(t *testing.T) {
	mock := &mockDriver{}
	store := NewFileStore(mock)
	ctx := context.Background()

	content := []byte("workbook bytes")
	stored, err := store.Store(ctx, "template.xlsx", bytes.NewReader(content), int64(len(content)), "application/vnd.ms-excel")
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if stored.Name != "template.xlsx" {
		t.Errorf("expected original name, got %q", stored.Name)
	}
	if !strings.HasSuffix(stored.Key, ".xlsx") {
		t.Errorf("key %q should keep the file extension", stored.Key)
	}
	if stored.Key == "template.xlsx" {
		t.Error("key must not be the raw filename")
	}
	if stored.URL != "/files/"+stored.Key {
		t.Errorf("unexpected URL %q", stored.URL)
	}
	if !bytes.Equal(mock.putBody, content) {
		t.Error("driver did not receive the file content")
	}

	reader, contentType, err := store.Open(ctx, stored.Key)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reader.Close()
	if contentType != "application/test" {
		t.Errorf("unexpected content type %q", contentType)
	}

	if err := store.Delete(ctx, stored.Key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(mock.removeCalls) != 1 || mock.removeCalls[0] != stored.Key {
		t.Errorf("expected one Remove call for %q, got %v", stored.Key, mock.removeCalls)
	}
}

func TestFileStoreDefaultsContentType(t *testing.T) {
	mock := &mockDriver{}
	store := NewFileStore(mock)

	stored, err := store.Store(context.Background(), "blob", bytes.NewReader([]byte("x")), 1, "")
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if stored.ContentType != "application/octet-stream" {
		t.Errorf("expected default content type, got %q", stored.ContentType)
	}
}

func TestFileStoreCleansUpWhenURLFails(t *testing.T) {
	mock := &mockDriver{urlErr: errors.New("no public endpoint")}
	store := NewFileStore(mock)

	_, err := store.Store(context.Background(), "template.xlsx", bytes.NewReader([]byte("x")), 1, "application/vnd.ms-excel")
	if err == nil {
		t.Fatal("expected an error when URL generation fails")
	}
	if len(mock.removeCalls) != 1 {
		t.Errorf("expected the orphaned object to be removed, got %v", mock.removeCalls)
	}
}
