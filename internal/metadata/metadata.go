package metadata

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"superforge/internal/descriptor"
	"superforge/internal/partition"
	"superforge/internal/textutil"
)

// Options carries the series-wide values shared by every book.
type Options struct {
	Author     string
	Editor     string
	Collection string
	Stylesheet string
}

type TitlePart struct {
	Type string `yaml:"type"`
	Text string `yaml:"text"`
}

type Creator struct {
	Role string `yaml:"role"`
	Text string `yaml:"text"`
}

type Identifier struct {
	Scheme string `yaml:"scheme"`
	Text   string `yaml:"text"`
}

type IBooks struct {
	Version               string `yaml:"version"`
	SpecifiedFonts        bool   `yaml:"specified-fonts"`
	IPhoneOrientationLock string `yaml:"iphone-orientation-lock"`
}

// EpubMeta is the content of epub-meta{book}.yaml.
type EpubMeta struct {
	Title               []TitlePart  `yaml:"title"`
	Creator             []Creator    `yaml:"creator"`
	Identifier          []Identifier `yaml:"identifier"`
	Stylesheet          []string     `yaml:"stylesheet"`
	CoverImage          string       `yaml:"cover-image"`
	IBooks              IBooks       `yaml:"ibooks"`
	BelongsToCollection string       `yaml:"belongs-to-collection"`
	GroupPosition       int          `yaml:"group-position"`
}

// Meta is the content of meta{book}.yaml.
type Meta struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
}

// Document is an encoded metadata file ready to be written into a book's
// html directory.
type Document struct {
	Name string
	Data []byte
}

// BookWord returns the spelled-out book number used in subtitles.
func BookWord(book int) string {
	return textutil.NumberWord(book)
}

// Subtitle returns "Book One" style subtitles.
func Subtitle(book int) string {
	return "Book " + BookWord(book)
}

func mainTitle(book int, title string) string {
	if t := textutil.Title(title); t != "" {
		return t
	}
	return Subtitle(book)
}

// NewEpubMeta builds the EPUB metadata for book. id becomes the package
// identifier and must not be the nil UUID.
func NewEpubMeta(book int, title string, id uuid.UUID, opts Options) (EpubMeta, error) {
	if err := partition.ValidateBook(book); err != nil {
		return EpubMeta{}, err
	}
	if id == uuid.Nil {
		return EpubMeta{}, fmt.Errorf("book %d: identifier is required", book)
	}
	stylesheet := strings.TrimSpace(opts.Stylesheet)
	if stylesheet == "" {
		stylesheet = descriptor.DefaultStylesheet
	}
	meta := EpubMeta{
		Title: []TitlePart{
			{Type: "main", Text: mainTitle(book, title)},
			{Type: "subtitle", Text: Subtitle(book)},
		},
		Identifier: []Identifier{{Scheme: "UUID", Text: id.URN()}},
		Stylesheet: []string{stylesheet},
		CoverImage: descriptor.CoverImageName(book),
		IBooks: IBooks{
			Version:               "4.0",
			SpecifiedFonts:        true,
			IPhoneOrientationLock: "portrait-only",
		},
		BelongsToCollection: strings.TrimSpace(opts.Collection),
		GroupPosition:       book,
	}
	if author := strings.TrimSpace(opts.Author); author != "" {
		meta.Creator = append(meta.Creator, Creator{Role: "author", Text: author})
	}
	if editor := strings.TrimSpace(opts.Editor); editor != "" {
		meta.Creator = append(meta.Creator, Creator{Role: "editor", Text: editor})
	}
	return meta, nil
}

// NewMeta builds the document metadata for book.
func NewMeta(book int, title, author string) (Meta, error) {
	if err := partition.ValidateBook(book); err != nil {
		return Meta{}, err
	}
	return Meta{Title: mainTitle(book, title), Author: strings.TrimSpace(author)}, nil
}

// Encode serializes v as a YAML metadata block delimited by "---" and "...".
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	buf.WriteString("...\n")
	return buf.Bytes(), nil
}

// Documents renders both metadata files for book, epub metadata first.
func Documents(book int, title string, id uuid.UUID, opts Options) ([]Document, error) {
	epub, err := NewEpubMeta(book, title, id, opts)
	if err != nil {
		return nil, err
	}
	meta, err := NewMeta(book, title, opts.Author)
	if err != nil {
		return nil, err
	}
	epubData, err := Encode(epub)
	if err != nil {
		return nil, err
	}
	metaData, err := Encode(meta)
	if err != nil {
		return nil, err
	}
	return []Document{
		{Name: descriptor.EpubMetadataName(book), Data: epubData},
		{Name: descriptor.MetadataName(book), Data: metaData},
	}, nil
}
