// ABOUTME: Tests for SQLite store implementation
// ABOUTME: Covers item CRUD, origin isolation, and persistence across reopen

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	return s
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created in nested directory")
	}
}

func TestSetAndGetItem(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	if err := store.SetItem(ctx, "https://a.example", "chat_client_id", "abc"); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}

	got, err := store.GetItem(ctx, "https://a.example", "chat_client_id")
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if got != "abc" {
		t.Errorf("expected abc, got %q", got)
	}

	// Overwrite
	if err := store.SetItem(ctx, "https://a.example", "chat_client_id", "def"); err != nil {
		t.Fatalf("SetItem overwrite failed: %v", err)
	}
	got, _ = store.GetItem(ctx, "https://a.example", "chat_client_id")
	if got != "def" {
		t.Errorf("expected def after overwrite, got %q", got)
	}
}

func TestGetItem_NotFound(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	_, err := store.GetItem(context.Background(), "https://a.example", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestItemsAreIsolatedByOrigin(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	if err := store.SetItem(ctx, "https://a.example", "k", "a"); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}

	_, err := store.GetItem(ctx, "https://b.example", "k")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for other origin, got %v", err)
	}
}

func TestRemoveItem(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	_ = store.SetItem(ctx, "o", "k", "v")
	if err := store.RemoveItem(ctx, "o", "k"); err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	if _, err := store.GetItem(ctx, "o", "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after remove, got %v", err)
	}

	// Removing again is fine
	if err := store.RemoveItem(ctx, "o", "k"); err != nil {
		t.Errorf("second RemoveItem failed: %v", err)
	}
}

func TestListItems_OrderedByKey(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	_ = store.SetItem(ctx, "o", "b", "2")
	_ = store.SetItem(ctx, "o", "a", "1")
	_ = store.SetItem(ctx, "other", "c", "3")

	items, err := store.ListItems(ctx, "o")
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Key != "a" || items[1].Key != "b" {
		t.Errorf("unexpected order: %q, %q", items[0].Key, items[1].Key)
	}
	if items[0].UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set")
	}
}

func TestItemsPersistAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "profile.db")
	ctx := context.Background()

	first, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	if err := first.SetItem(ctx, "o", "chat_client_id", "persisted"); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}
	first.Close()

	second, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()

	got, err := second.GetItem(ctx, "o", "chat_client_id")
	if err != nil {
		t.Fatalf("GetItem after reopen failed: %v", err)
	}
	if got != "persisted" {
		t.Errorf("expected persisted, got %q", got)
	}
}
