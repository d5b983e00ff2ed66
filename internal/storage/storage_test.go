package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore(t *testing.T) {
	// The directory does not exist yet; Put creates it.
	dir := filepath.Join(t.TempDir(), "overlay")
	store := NewFileStore(dir)

	if _, ok, err := store.Get("edits.json"); err != nil || ok {
		t.Fatalf("Expected absent blob, got ok=%v err=%v", ok, err)
	}

	if err := store.Put("edits.json", []byte(`{"edited":[]}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	data, ok, err := store.Get("edits.json")
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if string(data) != `{"edited":[]}` {
		t.Errorf("Unexpected blob: %s", data)
	}

	// Blob names never escape the store directory.
	if err := store.Put("../escape.json", []byte("x")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.json")); err != nil {
		t.Errorf("Expected path-stripped blob inside store dir: %v", err)
	}
}

func TestMemStore(t *testing.T) {
	store := NewMemStore()

	if _, ok, _ := store.Get("key"); ok {
		t.Fatal("Expected absent blob")
	}
	if err := store.Put("key", []byte("value")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	data, ok, _ := store.Get("key")
	if !ok || string(data) != "value" {
		t.Errorf("Unexpected blob: ok=%v data=%s", ok, data)
	}
}
