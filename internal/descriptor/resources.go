package descriptor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"superforge/internal/manifest"
)

var defaultFonts = []string{"abeatbykai.ttf", "Century Gothic.ttf", "Photograph Signature.ttf"}

const (
	DefaultStylesheet    = "style.css"
	DefaultTitleImage    = "title.png"
	DefaultOrnamentImage = "gem.gif"
)

// DefaultFonts returns the embedded font filenames in declaration order.
func DefaultFonts() []string {
	return append([]string(nil), defaultFonts...)
}

// CoverImageName returns cover{book}.png.
func CoverImageName(book int) string { return fmt.Sprintf("cover%d.png", book) }

// EpubMetadataName returns epub-meta{book}.yaml.
func EpubMetadataName(book int) string { return fmt.Sprintf("epub-meta%d.yaml", book) }

// MetadataName returns meta{book}.yaml.
func MetadataName(book int) string { return fmt.Sprintf("meta%d.yaml", book) }

// DefaultOutputFile is used when no title is recorded for the book.
func DefaultOutputFile(book int) string { return fmt.Sprintf("book%02d.epub", book) }

// Resources lists the non-content files a book's build needs.
type Resources struct {
	Layout        manifest.Layout
	OutputFile    string
	CoverImage    string
	Fonts         []string
	Stylesheet    string
	TitleImage    string
	OrnamentImage string
	EpubMetadata  string
	Metadata      string
}

// DefaultResources returns the standard resource set for book.
func DefaultResources(book int, layout manifest.Layout) Resources {
	return Resources{
		Layout:        layout,
		OutputFile:    DefaultOutputFile(book),
		CoverImage:    CoverImageName(book),
		Fonts:         DefaultFonts(),
		Stylesheet:    DefaultStylesheet,
		TitleImage:    DefaultTitleImage,
		OrnamentImage: DefaultOrnamentImage,
		EpubMetadata:  EpubMetadataName(book),
		Metadata:      MetadataName(book),
	}
}

// Validate reports missing or malformed resource names.
func (r Resources) Validate() error {
	var problems []string
	if strings.TrimSpace(r.Layout.BooksDir) == "" {
		problems = append(problems, "books dir is empty")
	}
	if !strings.HasSuffix(r.OutputFile, ".epub") {
		problems = append(problems, fmt.Sprintf("output file %q must end in .epub", r.OutputFile))
	}
	if len(r.Fonts) == 0 {
		problems = append(problems, "at least one font is required")
	}
	named := []struct {
		label string
		value string
	}{
		{"cover image", r.CoverImage},
		{"stylesheet", r.Stylesheet},
		{"title image", r.TitleImage},
		{"ornament image", r.OrnamentImage},
		{"epub metadata", r.EpubMetadata},
		{"metadata", r.Metadata},
	}
	for _, n := range named {
		if err := checkBaseName(n.value); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", n.label, err))
		}
	}
	for _, font := range r.Fonts {
		if err := checkBaseName(font); err != nil {
			problems = append(problems, fmt.Sprintf("font: %v", err))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidResources, strings.Join(problems, "; "))
	}
	return nil
}

func checkBaseName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name is empty")
	}
	if filepath.Base(name) != name {
		return fmt.Errorf("%q must be a bare filename", name)
	}
	return nil
}

// paths returns the non-content resource paths in converter order: the book
// directory, stylesheet, fonts, images and the two metadata documents.
func (r Resources) paths(book int) []string {
	styles := r.Layout.StylesDir(book)
	images := r.Layout.ImagesDir(book)
	html := r.Layout.HTMLDir(book)

	out := make([]string, 0, 8+len(r.Fonts))
	out = append(out, r.Layout.BookDir(book))
	out = append(out, filepath.Join(styles, r.Stylesheet))
	for _, font := range r.Fonts {
		out = append(out, filepath.Join(styles, font))
	}
	out = append(out,
		filepath.Join(images, r.TitleImage),
		filepath.Join(images, r.CoverImage),
		filepath.Join(images, r.OrnamentImage),
		filepath.Join(html, r.Metadata),
		filepath.Join(html, r.EpubMetadata),
	)
	return out
}

// Asset is a shared file that must be present in a book's Styles or Images
// directory before conversion.
type Asset struct {
	Name string
	Path string
}

// Assets returns the stylesheet, fonts and images of book with their
// destination paths.
func (r Resources) Assets(book int) []Asset {
	styles := r.Layout.StylesDir(book)
	images := r.Layout.ImagesDir(book)

	out := make([]Asset, 0, 4+len(r.Fonts))
	out = append(out, Asset{Name: r.Stylesheet, Path: filepath.Join(styles, r.Stylesheet)})
	for _, font := range r.Fonts {
		out = append(out, Asset{Name: font, Path: filepath.Join(styles, font)})
	}
	for _, image := range []string{r.TitleImage, r.CoverImage, r.OrnamentImage} {
		out = append(out, Asset{Name: image, Path: filepath.Join(images, image)})
	}
	return out
}
