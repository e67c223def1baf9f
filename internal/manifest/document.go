package manifest

import (
	"fmt"
	"strconv"
	"strings"

	"superforge/internal/partition"
)

// Kind identifies the role of a document inside a book.
type Kind string

const (
	KindCover     Kind = "cover"
	KindTitlepage Kind = "titlepage"
	KindSection   Kind = "section"
	KindChapter   Kind = "chapter"
	KindEndOfBook Kind = "endofbook"
)

// DocumentRef identifies one content document. Number is the book for cover,
// titlepage and endofbook documents, the section for section pages and the
// chapter for chapters.
type DocumentRef struct {
	Kind   Kind `json:"kind" yaml:"kind"`
	Number int  `json:"number" yaml:"number"`
}

func Cover(book int) DocumentRef { return DocumentRef{Kind: KindCover, Number: book} }

func Titlepage(book int) DocumentRef { return DocumentRef{Kind: KindTitlepage, Number: book} }

func SectionPage(section int) DocumentRef { return DocumentRef{Kind: KindSection, Number: section} }

func Chapter(chapter int) DocumentRef { return DocumentRef{Kind: KindChapter, Number: chapter} }

func EndOfBook(book int) DocumentRef { return DocumentRef{Kind: KindEndOfBook, Number: book} }

// Filename returns the HTML filename other tooling expects for the document.
func (d DocumentRef) Filename() string {
	switch d.Kind {
	case KindCover:
		return fmt.Sprintf("cover%d.html", d.Number)
	case KindTitlepage:
		return fmt.Sprintf("titlepage-%02d.html", d.Number)
	case KindSection:
		return fmt.Sprintf("section-%02d.html", d.Number)
	case KindChapter:
		return fmt.Sprintf("chapter-%04d.html", d.Number)
	case KindEndOfBook:
		return fmt.Sprintf("endofbook-%02d.html", d.Number)
	default:
		return ""
	}
}

func (d DocumentRef) String() string {
	if name := d.Filename(); name != "" {
		return name
	}
	return fmt.Sprintf("%s:%d", d.Kind, d.Number)
}

// Book resolves the book that owns the document.
func (d DocumentRef) Book() (int, error) {
	switch d.Kind {
	case KindCover, KindTitlepage, KindEndOfBook:
		if err := partition.ValidateBook(d.Number); err != nil {
			return 0, err
		}
		return d.Number, nil
	case KindSection:
		return partition.BookOfSection(d.Number)
	case KindChapter:
		return partition.BookOfChapter(d.Number)
	default:
		return 0, fmt.Errorf("unknown document kind %q", d.Kind)
	}
}

// filenamePrefixes lists the longest prefixes first so "cover" never
// shadows another kind.
var filenamePrefixes = []struct {
	prefix string
	kind   Kind
}{
	{"titlepage-", KindTitlepage},
	{"endofbook-", KindEndOfBook},
	{"section-", KindSection},
	{"chapter-", KindChapter},
	{"cover", KindCover},
}

// ParseFilename is the inverse of Filename.
func ParseFilename(name string) (DocumentRef, error) {
	stem, ok := strings.CutSuffix(name, ".html")
	if ok {
		for _, p := range filenamePrefixes {
			digits, found := strings.CutPrefix(stem, p.prefix)
			if !found {
				continue
			}
			n, err := strconv.Atoi(digits)
			if err != nil || n < 0 {
				break
			}
			ref := DocumentRef{Kind: p.kind, Number: n}
			if ref.Filename() == name {
				return ref, nil
			}
			break
		}
	}
	return DocumentRef{}, fmt.Errorf("unrecognized document filename %q", name)
}
