package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"superforge/internal/config"
	"superforge/internal/content"
	"superforge/internal/manifest"
)

// MustOpenStore opens a content.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *content.Store {
	t.Helper()

	store, err := content.Open(cfg)
	if err != nil {
		t.Fatalf("content.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddChapter stores a chapter row for tests using the provided store.
func AddChapter(t testing.TB, store *content.Store, chapter int, title string) *content.Chapter {
	t.Helper()

	rec, err := store.UpsertChapter(context.Background(), chapter, title, "")
	if err != nil {
		t.Fatalf("store.UpsertChapter(%d): %v", chapter, err)
	}
	return rec
}

// WriteDocuments creates a placeholder HTML file for every document of m
// under layout.
func WriteDocuments(t testing.TB, layout manifest.Layout, m manifest.Manifest) {
	t.Helper()

	for _, path := range m.Paths(layout) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", path, err)
		}
		if err := os.WriteFile(path, []byte("<html></html>\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}
