package store

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_New(t *testing.T) {
	s := newTestStore(t)
	if s == nil {
		t.Fatal("expected non-nil store")
	}
}

func TestStore_New_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path/test.db")
	if err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestStore_New_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := s.Set(context.Background(), "k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	s.Close()

	s, err = New(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer s.Close()

	v, found, err := s.Get(context.Background(), "k")
	if err != nil || !found || v != "v" {
		t.Errorf("expected persisted value 'v', got %q found=%v err=%v", v, found, err)
	}
}

func TestStore_Get_Miss(t *testing.T) {
	s := newTestStore(t)

	v, found, err := s.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected not found")
	}
	if v != "" {
		t.Errorf("expected empty value, got %q", v)
	}
}

func TestStore_Set_Overwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "youdao_app_key", "first"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, "youdao_app_key", "second"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	v, found, err := s.Get(ctx, "youdao_app_key")
	if err != nil || !found {
		t.Fatalf("expected value, got found=%v err=%v", found, err)
	}
	if v != "second" {
		t.Errorf("expected 'second', got %q", v)
	}
}

func TestStore_Set_ValueIsOpaque(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// "e" + combining acute accent would compose to "é" under NFC.
	if err := s.Set(ctx, "youdao_app_secret", "  cafe\u0301 \n"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, _, _ := s.Get(ctx, "youdao_app_secret")
	if v != "cafe\u0301" {
		t.Errorf("expected value trimmed but otherwise unchanged, got %q", v)
	}
}

func TestStore_Key_Normalizes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, " cafe\u0301", "1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, found, _ := s.Get(ctx, "caf\u00e9")
	if !found || v != "1" {
		t.Errorf("expected NFC-equal keys to match, got %q found=%v", v, found)
	}
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Set(ctx, "a", "1")
	s.Set(ctx, "b", "2")

	n, err := s.Delete(ctx, "a", "b", "missing")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows deleted, got %d", n)
	}
	if _, found, _ := s.Get(ctx, "a"); found {
		t.Error("expected 'a' to be deleted")
	}
}

func TestStore_List(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Set(ctx, "b", "2")
	s.Set(ctx, "a", "1")

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Key != "a" || entries[1].Key != "b" {
		t.Errorf("expected entries ordered by key, got %v", entries)
	}
	if entries[0].UpdatedAt.IsZero() {
		t.Error("expected updated_at to be set")
	}
}
