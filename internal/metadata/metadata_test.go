package metadata

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"superforge/internal/partition"
)

var testOptions = Options{
	Author:     "Twelve Winged Dark Seraphim",
	Editor:     "Max Ludden",
	Collection: "Super Gene",
}

func TestDocumentsNamesAndContent(t *testing.T) {
	id := uuid.MustParse("6f1c1b8e-2d4f-4b8a-9a55-0d7f6a0e4c21")
	docs, err := Documents(3, "first sanctuary of gods", id, testOptions)
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}
	if len(docs) != 2 || docs[0].Name != "epub-meta3.yaml" || docs[1].Name != "meta3.yaml" {
		t.Fatalf("unexpected documents %+v", docs)
	}

	epub := string(docs[0].Data)
	for _, fragment := range []string{
		"---\ntitle:\n",
		"text: First Sanctuary of Gods",
		"text: Book Three",
		"role: author",
		"role: editor",
		"text: urn:uuid:6f1c1b8e-2d4f-4b8a-9a55-0d7f6a0e4c21",
		"cover-image: cover3.png",
		"belongs-to-collection: Super Gene",
		"group-position: 3",
		"  - style.css",
	} {
		if !strings.Contains(epub, fragment) {
			t.Fatalf("epub metadata missing %q\n%s", fragment, epub)
		}
	}
	if !strings.HasSuffix(epub, "...\n") {
		t.Fatalf("epub metadata not terminated: %q", epub)
	}

	var meta Meta
	body := strings.TrimSuffix(strings.TrimPrefix(string(docs[1].Data), "---\n"), "...\n")
	if err := yaml.Unmarshal([]byte(body), &meta); err != nil {
		t.Fatalf("decode meta: %v", err)
	}
	if meta.Title != "First Sanctuary of Gods" || meta.Author != testOptions.Author {
		t.Fatalf("unexpected meta %+v", meta)
	}
}

func TestEpubMetaFallsBackToSubtitle(t *testing.T) {
	meta, err := NewEpubMeta(10, "  ", uuid.New(), Options{})
	if err != nil {
		t.Fatalf("NewEpubMeta: %v", err)
	}
	if meta.Title[0].Text != "Book Ten" {
		t.Fatalf("main title %q", meta.Title[0].Text)
	}
	if len(meta.Creator) != 0 {
		t.Fatalf("expected no creators, got %+v", meta.Creator)
	}
	if meta.Stylesheet[0] != "style.css" {
		t.Fatalf("stylesheet %v", meta.Stylesheet)
	}
}

func TestEpubMetaRejectsInvalidInput(t *testing.T) {
	if _, err := NewEpubMeta(11, "x", uuid.New(), testOptions); !errors.Is(err, partition.ErrBookNotFound) {
		t.Fatalf("NewEpubMeta(11) error = %v", err)
	}
	if _, err := NewEpubMeta(1, "x", uuid.Nil, testOptions); err == nil {
		t.Fatal("expected error for nil identifier")
	}
}
