package manifest

import (
	"errors"
	"fmt"
	"iter"

	"superforge/internal/partition"
)

// Manifest is the ordered document list for one book.
type Manifest struct {
	Book      int           `json:"book" yaml:"book"`
	Sections  []int         `json:"sections" yaml:"sections"`
	Documents []DocumentRef `json:"documents" yaml:"documents"`
}

// index is the slice of the partition package that assembly depends on.
type index interface {
	SectionsOf(book int) ([]int, error)
	BookOfSection(section int) (int, error)
	ChapterSeq(section int) iter.Seq[int]
	ChapterCount(section int) (int, error)
}

type staticIndex struct{}

func (staticIndex) SectionsOf(book int) ([]int, error) { return partition.SectionsOf(book) }
func (staticIndex) BookOfSection(section int) (int, error) { return partition.BookOfSection(section) }
func (staticIndex) ChapterSeq(section int) iter.Seq[int] { return partition.ChapterSeq(section) }
func (staticIndex) ChapterCount(section int) (int, error) { return partition.ChapterCount(section) }

// Build assembles the manifest for book. An out-of-range book yields a
// *partition.BookNotFoundError; any inconsistency in the partition tables
// yields an *AssemblyError. No partial manifest is returned.
func Build(book int) (Manifest, error) {
	return assemble(book, staticIndex{})
}

func assemble(book int, idx index) (Manifest, error) {
	if err := partition.ValidateBook(book); err != nil {
		return Manifest{}, err
	}
	sections, err := idx.SectionsOf(book)
	if err != nil {
		return Manifest{}, &AssemblyError{Book: book, Err: err}
	}
	if len(sections) == 0 {
		return Manifest{}, &AssemblyError{Book: book, Err: errors.New("book owns no sections")}
	}

	total := 3
	for pos, section := range sections {
		if pos > 0 && section <= sections[pos-1] {
			return Manifest{}, &AssemblyError{Book: book, Section: section, Err: errors.New("sections not ascending")}
		}
		owner, err := idx.BookOfSection(section)
		if err != nil {
			return Manifest{}, &AssemblyError{Book: book, Section: section, Err: err}
		}
		if owner != book {
			return Manifest{}, &AssemblyError{Book: book, Section: section, Err: fmt.Errorf("section owned by book %d", owner)}
		}
		count, err := idx.ChapterCount(section)
		if err != nil {
			return Manifest{}, &AssemblyError{Book: book, Section: section, Err: err}
		}
		total += 1 + count
	}

	docs := make([]DocumentRef, 0, total)
	docs = append(docs, Cover(book), Titlepage(book))
	for _, section := range sections {
		docs = append(docs, SectionPage(section))
		prev := 0
		emitted := 0
		for chapter := range idx.ChapterSeq(section) {
			if chapter <= prev {
				return Manifest{}, &AssemblyError{Book: book, Section: section, Err: fmt.Errorf("chapter %d out of order", chapter)}
			}
			prev = chapter
			emitted++
			docs = append(docs, Chapter(chapter))
		}
		if emitted == 0 {
			return Manifest{}, &AssemblyError{Book: book, Section: section, Err: errors.New("section has no chapters")}
		}
	}
	docs = append(docs, EndOfBook(book))
	if len(docs) != total {
		return Manifest{}, &AssemblyError{Book: book, Err: fmt.Errorf("assembled %d documents, expected %d", len(docs), total)}
	}

	return Manifest{
		Book:      book,
		Sections:  append([]int(nil), sections...),
		Documents: docs,
	}, nil
}

// Len returns the number of documents.
func (m Manifest) Len() int { return len(m.Documents) }

// Filenames returns the bare filename of every document, in order.
func (m Manifest) Filenames() []string {
	out := make([]string, len(m.Documents))
	for i, doc := range m.Documents {
		out[i] = doc.Filename()
	}
	return out
}

// Paths returns the full path of every document, in order.
func (m Manifest) Paths(layout Layout) []string {
	out := make([]string, len(m.Documents))
	for i, doc := range m.Documents {
		out[i] = layout.documentPath(m.Book, doc)
	}
	return out
}

// Render returns full paths when fullPath is set and bare filenames otherwise.
func (m Manifest) Render(layout Layout, fullPath bool) []string {
	if fullPath {
		return m.Paths(layout)
	}
	return m.Filenames()
}

// Chapters returns the chapter numbers of the manifest in order.
func (m Manifest) Chapters() []int {
	var out []int
	for _, doc := range m.Documents {
		if doc.Kind == KindChapter {
			out = append(out, doc.Number)
		}
	}
	return out
}
