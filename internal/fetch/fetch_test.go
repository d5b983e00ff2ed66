package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		BaseFile:     `{"catalog_version":"2025.01.01.0900","items":[{"id":"it_1","item_name":"Letter","box_id":"DO3M"}]}`,
		ManifestFile: `{"last_updated":"2025-02-01 10:00:00","deltas":["2025-02-01.json"]}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	if err := os.MkdirAll(filepath.Join(dir, UpdatesDir), 0755); err != nil {
		t.Fatalf("Failed to create updates dir: %v", err)
	}
	delta := `{"delta_version":"2025-02-01","added":[{"id":"it_2","item_name":"Teacup"}]}`
	if err := os.WriteFile(filepath.Join(dir, UpdatesDir, "2025-02-01.json"), []byte(delta), 0644); err != nil {
		t.Fatalf("Failed to write delta: %v", err)
	}
	return dir
}

func TestDirSource(t *testing.T) {
	src := NewDirSource(writeDataDir(t))
	ctx := context.Background()

	base, err := src.Base(ctx)
	if err != nil {
		t.Fatalf("Base failed: %v", err)
	}
	if base.CatalogVersion != "2025.01.01.0900" || len(base.Items) != 1 {
		t.Errorf("Unexpected base: %+v", base)
	}

	manifest, err := src.Manifest(ctx)
	if err != nil {
		t.Fatalf("Manifest failed: %v", err)
	}
	if len(manifest.Deltas) != 1 || manifest.Deltas[0] != "2025-02-01.json" {
		t.Errorf("Unexpected manifest: %+v", manifest)
	}

	delta, err := src.Delta(ctx, "2025-02-01.json")
	if err != nil {
		t.Fatalf("Delta failed: %v", err)
	}
	if len(delta.Added) != 1 || delta.Added[0].ID != "it_2" {
		t.Errorf("Unexpected delta: %+v", delta)
	}
}

func TestDirSourceMissingFiles(t *testing.T) {
	src := NewDirSource(t.TempDir())
	ctx := context.Background()

	if _, err := src.Base(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing base, got %v", err)
	}
	if _, err := src.Manifest(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing manifest, got %v", err)
	}
	if _, err := src.Delta(ctx, "nope.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing delta, got %v", err)
	}
}

func TestDirSourceMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, BaseFile), []byte("{nope"), 0644); err != nil {
		t.Fatalf("Failed to write base: %v", err)
	}

	src := NewDirSource(dir)
	if _, err := src.Base(context.Background()); err == nil {
		t.Error("Expected parse error, got nil")
	}
}

func TestHTTPSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/" + BaseFile:
			_, _ = w.Write([]byte(`{"catalog_version":"v1","items":[]}`))
		case "/" + ManifestFile:
			_, _ = w.Write([]byte(`{"last_updated":"today","deltas":["d1.json"]}`))
		case "/" + UpdatesDir + "/d1.json":
			_, _ = w.Write([]byte(`{"removed":["it_1"]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL)
	ctx := context.Background()

	base, err := src.Base(ctx)
	if err != nil {
		t.Fatalf("Base failed: %v", err)
	}
	if base.CatalogVersion != "v1" {
		t.Errorf("Unexpected base version: %s", base.CatalogVersion)
	}

	delta, err := src.Delta(ctx, "d1.json")
	if err != nil {
		t.Fatalf("Delta failed: %v", err)
	}
	if len(delta.Removed) != 1 {
		t.Errorf("Unexpected delta: %+v", delta)
	}

	if _, err := src.Delta(ctx, "missing.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for 404, got %v", err)
	}
}
