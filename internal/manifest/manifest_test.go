package manifest

import (
	"errors"
	"iter"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"superforge/internal/partition"
)

func TestBuildShape(t *testing.T) {
	for _, book := range partition.Books() {
		m, err := Build(book)
		if err != nil {
			t.Fatalf("Build(%d) error: %v", book, err)
		}
		if m.Len() < 4 {
			t.Fatalf("Build(%d) produced %d documents", book, m.Len())
		}
		if m.Documents[0] != Cover(book) {
			t.Fatalf("Build(%d) starts with %v", book, m.Documents[0])
		}
		if m.Documents[1] != Titlepage(book) {
			t.Fatalf("Build(%d) second document %v", book, m.Documents[1])
		}
		if last := m.Documents[m.Len()-1]; last != EndOfBook(book) {
			t.Fatalf("Build(%d) ends with %v", book, last)
		}

		want := 3
		for _, section := range m.Sections {
			count, err := partition.ChapterCount(section)
			if err != nil {
				t.Fatalf("ChapterCount(%d) error: %v", section, err)
			}
			want += 1 + count
		}
		if m.Len() != want {
			t.Fatalf("Build(%d) length %d, want %d", book, m.Len(), want)
		}
		if !slices.IsSorted(m.Chapters()) {
			t.Fatalf("Build(%d) chapters not ascending", book)
		}
	}
}

func TestBuildBookOneLength(t *testing.T) {
	m, err := Build(1)
	if err != nil {
		t.Fatalf("Build(1) error: %v", err)
	}
	if m.Len() != 428 {
		t.Fatalf("Build(1) length %d, want 428", m.Len())
	}
	names := m.Filenames()
	want := []string{"cover1.html", "titlepage-01.html", "section-01.html", "chapter-0001.html"}
	if !slices.Equal(names[:4], want) {
		t.Fatalf("unexpected head %v", names[:4])
	}
	if names[len(names)-2] != "chapter-0424.html" || names[len(names)-1] != "endofbook-01.html" {
		t.Fatalf("unexpected tail %v", names[len(names)-2:])
	}
}

func TestBuildTwoSectionBook(t *testing.T) {
	m, err := Build(9)
	if err != nil {
		t.Fatalf("Build(9) error: %v", err)
	}
	if !slices.Equal(m.Sections, []int{14, 15}) {
		t.Fatalf("Build(9) sections %v", m.Sections)
	}
	names := m.Filenames()
	second := slices.Index(names, "section-15.html")
	if second < 0 {
		t.Fatal("section-15.html missing")
	}
	if names[2] != "section-14.html" || names[3] != "chapter-2766.html" {
		t.Fatalf("unexpected first section head %v", names[2:4])
	}
	if names[second-1] != "chapter-2891.html" || names[second+1] != "chapter-2892.html" {
		t.Fatalf("unexpected section boundary %v", names[second-1:second+2])
	}
}

func TestBuildExcludesSkippedChapters(t *testing.T) {
	m, err := Build(10)
	if err != nil {
		t.Fatalf("Build(10) error: %v", err)
	}
	chapters := m.Chapters()
	for _, skipped := range partition.SkippedChapters() {
		if slices.Contains(chapters, skipped) {
			t.Fatalf("manifest contains skipped chapter %d", skipped)
		}
	}
}

func TestBuildIdempotent(t *testing.T) {
	first, err := Build(4)
	if err != nil {
		t.Fatalf("Build(4) error: %v", err)
	}
	second, err := Build(4)
	if err != nil {
		t.Fatalf("Build(4) error: %v", err)
	}
	if !slices.Equal(first.Documents, second.Documents) {
		t.Fatal("repeated builds differ")
	}
}

func TestBuildRejectsUnknownBook(t *testing.T) {
	for _, book := range []int{0, 11, -1} {
		_, err := Build(book)
		var missing *partition.BookNotFoundError
		if !errors.As(err, &missing) {
			t.Fatalf("Build(%d) error = %v, want *BookNotFoundError", book, err)
		}
		if missing.Book != book {
			t.Fatalf("error carries book %d, want %d", missing.Book, book)
		}
	}
}

func TestRenderPreservesOrderAndCardinality(t *testing.T) {
	m, err := Build(5)
	if err != nil {
		t.Fatalf("Build(5) error: %v", err)
	}
	layout := Layout{BooksDir: "/srv/books"}
	names := m.Render(layout, false)
	paths := m.Render(layout, true)
	if len(names) != len(paths) {
		t.Fatalf("filenames %d, paths %d", len(names), len(paths))
	}
	for i := range names {
		if filepath.Base(paths[i]) != names[i] {
			t.Fatalf("position %d: path %q does not end in %q", i, paths[i], names[i])
		}
		if !strings.HasPrefix(paths[i], "/srv/books/book05/html/") {
			t.Fatalf("position %d: unexpected path %q", i, paths[i])
		}
	}
}

type brokenIndex struct {
	owner func(section int) int
	seq   func(section int) []int
}

func (b brokenIndex) SectionsOf(book int) ([]int, error) { return partition.SectionsOf(book) }

func (b brokenIndex) BookOfSection(section int) (int, error) { return b.owner(section), nil }

func (b brokenIndex) ChapterSeq(section int) iter.Seq[int] { return slices.Values(b.seq(section)) }

func (b brokenIndex) ChapterCount(section int) (int, error) { return len(b.seq(section)), nil }

func TestAssembleReportsInconsistentOwner(t *testing.T) {
	idx := brokenIndex{
		owner: func(section int) int { return 7 },
		seq:   func(section int) []int { return []int{1} },
	}
	_, err := assemble(4, idx)
	if !errors.Is(err, ErrAssembly) {
		t.Fatalf("assemble error = %v, want ErrAssembly", err)
	}
	var asmErr *AssemblyError
	if !errors.As(err, &asmErr) {
		t.Fatalf("assemble error %T is not *AssemblyError", err)
	}
	if asmErr.Book != 4 || asmErr.Section != 4 {
		t.Fatalf("unexpected error fields %+v", asmErr)
	}
}

func TestAssembleReportsUnorderedChapters(t *testing.T) {
	idx := brokenIndex{
		owner: func(section int) int { return 1 },
		seq:   func(section int) []int { return []int{3, 2} },
	}
	_, err := assemble(1, idx)
	if !errors.Is(err, ErrAssembly) {
		t.Fatalf("assemble error = %v, want ErrAssembly", err)
	}
}

func TestDocumentBook(t *testing.T) {
	cases := []struct {
		ref  DocumentRef
		want int
	}{
		{Cover(3), 3},
		{SectionPage(5), 4},
		{Chapter(3462), 10},
		{Chapter(425), 2},
		{EndOfBook(10), 10},
	}
	for _, tc := range cases {
		got, err := tc.ref.Book()
		if err != nil {
			t.Fatalf("%v.Book() error: %v", tc.ref, err)
		}
		if got != tc.want {
			t.Fatalf("%v.Book() = %d, want %d", tc.ref, got, tc.want)
		}
	}
	if _, err := Chapter(3095).Book(); !errors.Is(err, partition.ErrInvalidChapter) {
		t.Fatalf("skipped chapter Book() error = %v", err)
	}
}

func TestParseFilename(t *testing.T) {
	for _, ref := range []DocumentRef{Cover(10), Titlepage(2), SectionPage(17), Chapter(7), EndOfBook(1)} {
		got, err := ParseFilename(ref.Filename())
		if err != nil {
			t.Fatalf("ParseFilename(%q) error: %v", ref.Filename(), err)
		}
		if got != ref {
			t.Fatalf("ParseFilename(%q) = %v, want %v", ref.Filename(), got, ref)
		}
	}
	for _, name := range []string{"chapter-7.html", "cover.html", "notes.html", "section-01.yaml"} {
		if _, err := ParseFilename(name); err == nil {
			t.Fatalf("ParseFilename(%q) expected error", name)
		}
	}
}

func TestLayoutPaths(t *testing.T) {
	layout := Layout{BooksDir: "/srv/books"}
	if got := layout.DescriptorPath(3); got != "/srv/books/book03/html/sg3.yaml" {
		t.Fatalf("DescriptorPath(3) = %q", got)
	}
	path, err := layout.DocumentPath(Chapter(1700))
	if err != nil {
		t.Fatalf("DocumentPath error: %v", err)
	}
	if path != "/srv/books/book04/html/chapter-1700.html" {
		t.Fatalf("DocumentPath(chapter 1700) = %q", path)
	}
}
