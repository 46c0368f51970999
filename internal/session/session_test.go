package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStore_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewStore(path)

	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Load before Save: error = %v, want ErrNoSession", err)
	}

	if err := store.Save("tok-123"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "tok-123" {
		t.Errorf("token = %q, want tok-123", got)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Load after Clear: error = %v, want ErrNoSession", err)
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Save("first"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save("second"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "second" {
		t.Errorf("token = %q, want second", got)
	}
}

func TestStore_SaveRejectsEmptyToken(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Save(""); err == nil {
		t.Fatal("expected error for empty token, got nil")
	}
}

func TestStore_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStore(path)
	if err := store.Save("tok"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file perm = %o, want 0600", perm)
	}
}

func TestStore_ClearIdempotent(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear on absent file: %v", err)
	}
}

func TestStore_EmptyTokenInFileIsNoSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(`{"token":""}`), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	store := NewStore(path)
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("error = %v, want ErrNoSession", err)
	}
}
