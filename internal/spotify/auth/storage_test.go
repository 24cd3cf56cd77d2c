package auth

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStorage(t *testing.T) *FileStorage {
	t.Helper()
	storage, err := NewFileStorage(filepath.Join(t.TempDir(), "token.json"))
	if err != nil {
		t.Fatalf("NewFileStorage() error: %v", err)
	}
	return storage
}

func TestFileStorage_SaveLoad(t *testing.T) {
	storage := newTestStorage(t)

	token := &Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		ExpiresAt:    time.Now().Add(time.Hour).Truncate(time.Second),
	}

	if err := storage.Save(token); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if !storage.Exists() {
		t.Error("Exists() = false after Save")
	}

	loaded, err := storage.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded == nil {
		t.Fatal("Load() = nil, want token")
	}
	if loaded.AccessToken != token.AccessToken {
		t.Errorf("AccessToken = %q, want %q", loaded.AccessToken, token.AccessToken)
	}
	if loaded.RefreshToken != token.RefreshToken {
		t.Errorf("RefreshToken = %q, want %q", loaded.RefreshToken, token.RefreshToken)
	}
	if !loaded.ExpiresAt.Equal(token.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", loaded.ExpiresAt, token.ExpiresAt)
	}
}

func TestFileStorage_LoadMissing(t *testing.T) {
	storage := newTestStorage(t)

	token, err := storage.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if token != nil {
		t.Errorf("Load() = %+v, want nil for missing file", token)
	}
	if storage.Exists() {
		t.Error("Exists() = true for missing file")
	}
}

func TestFileStorage_Delete(t *testing.T) {
	storage := newTestStorage(t)

	if err := storage.Save(&Token{AccessToken: "x"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := storage.Delete(); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if storage.Exists() {
		t.Error("Exists() = true after Delete")
	}

	// Deleting again is not an error.
	if err := storage.Delete(); err != nil {
		t.Errorf("second Delete() error: %v", err)
	}
}
