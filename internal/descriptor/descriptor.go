package descriptor

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"superforge/internal/manifest"
)

var (
	ErrInvalidResources  = errors.New("invalid descriptor resources")
	ErrInvalidDescriptor = errors.New("invalid build descriptor")
)

const (
	tocDepth         = 2
	epubChapterLevel = 2
)

// Descriptor is the converter defaults file for one book. Field order is the
// serialized key order.
type Descriptor struct {
	From             string   `yaml:"from" json:"from"`
	To               string   `yaml:"to" json:"to"`
	OutputFile       string   `yaml:"output-file" json:"output_file"`
	InputFiles       []string `yaml:"input-files" json:"input_files"`
	Standalone       bool     `yaml:"standalone" json:"standalone"`
	SelfContained    bool     `yaml:"self-contained" json:"self_contained"`
	ResourceFiles    []string `yaml:"resource-files" json:"resource_files"`
	TOC              bool     `yaml:"toc" json:"toc"`
	TOCDepth         int      `yaml:"toc-depth" json:"toc_depth"`
	EpubChapterLevel int      `yaml:"epub-chapter-level" json:"epub_chapter_level"`
	EpubCoverImage   string   `yaml:"epub-cover-image" json:"epub_cover_image"`
	EpubFonts        []string `yaml:"epub-fonts" json:"epub_fonts"`
	EpubMetadata     string   `yaml:"epub-metadata" json:"epub_metadata"`
	MetadataFiles    []string `yaml:"metadata-files" json:"metadata_files"`
	CSS              string   `yaml:"css" json:"css"`
}

// Render builds the descriptor for book from its manifest and resources.
// The manifest must belong to book.
func Render(book int, m manifest.Manifest, res Resources) (Descriptor, error) {
	if m.Book != book {
		return Descriptor{}, fmt.Errorf("%w: manifest belongs to book %d, not %d", ErrInvalidDescriptor, m.Book, book)
	}
	if m.Len() == 0 {
		return Descriptor{}, fmt.Errorf("%w: manifest for book %d is empty", ErrInvalidDescriptor, book)
	}
	if err := res.Validate(); err != nil {
		return Descriptor{}, err
	}

	resources := res.paths(book)
	resources = append(resources, m.Paths(res.Layout)...)

	return Descriptor{
		From:             "html",
		To:               "epub",
		OutputFile:       res.OutputFile,
		InputFiles:       m.Filenames(),
		Standalone:       true,
		SelfContained:    true,
		ResourceFiles:    resources,
		TOC:              true,
		TOCDepth:         tocDepth,
		EpubChapterLevel: epubChapterLevel,
		EpubCoverImage:   res.CoverImage,
		EpubFonts:        append([]string(nil), res.Fonts...),
		EpubMetadata:     res.EpubMetadata,
		MetadataFiles:    []string{res.EpubMetadata, res.Metadata},
		CSS:              res.Stylesheet,
	}, nil
}

// Encode serializes the descriptor as YAML with two-space indentation.
func (d Descriptor) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encode descriptor: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode descriptor: %w", err)
	}
	return buf.Bytes(), nil
}

// Parse decodes a descriptor previously produced by Encode. Unknown keys are
// rejected.
func Parse(data []byte) (Descriptor, error) {
	var d Descriptor
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return Descriptor{}, fmt.Errorf("parse descriptor: %w", err)
	}
	return d, nil
}

// Validate checks the descriptor is internally consistent: fixed converter
// settings, a cover first and end-of-book last, and a resource path for every
// input file.
func (d Descriptor) Validate() error {
	var problems []string
	if d.From != "html" || d.To != "epub" {
		problems = append(problems, fmt.Sprintf("conversion must be html to epub, got %s to %s", d.From, d.To))
	}
	if !strings.HasSuffix(d.OutputFile, ".epub") {
		problems = append(problems, fmt.Sprintf("output file %q must end in .epub", d.OutputFile))
	}
	if !d.Standalone || !d.SelfContained || !d.TOC {
		problems = append(problems, "standalone, self-contained and toc must be enabled")
	}
	if d.TOCDepth != tocDepth || d.EpubChapterLevel != epubChapterLevel {
		problems = append(problems, fmt.Sprintf("toc-depth and epub-chapter-level must be %d", tocDepth))
	}
	if len(d.MetadataFiles) != 2 || d.MetadataFiles[0] != d.EpubMetadata {
		problems = append(problems, "metadata-files must list the epub metadata first and the metadata second")
	}

	if len(d.InputFiles) == 0 {
		problems = append(problems, "input-files is empty")
	} else {
		first, err := manifest.ParseFilename(d.InputFiles[0])
		if err != nil || first.Kind != manifest.KindCover {
			problems = append(problems, fmt.Sprintf("first input %q is not a cover", d.InputFiles[0]))
		}
		last, err := manifest.ParseFilename(d.InputFiles[len(d.InputFiles)-1])
		if err != nil || last.Kind != manifest.KindEndOfBook {
			problems = append(problems, fmt.Sprintf("last input %q is not an end-of-book page", d.InputFiles[len(d.InputFiles)-1]))
		}
	}

	available := make(map[string]struct{}, len(d.ResourceFiles))
	for _, path := range d.ResourceFiles {
		available[filepath.Base(path)] = struct{}{}
	}
	for _, name := range d.InputFiles {
		if _, ok := available[name]; !ok {
			problems = append(problems, fmt.Sprintf("input %q has no resource path", name))
		}
	}
	for _, font := range d.EpubFonts {
		if _, ok := available[font]; !ok {
			problems = append(problems, fmt.Sprintf("font %q has no resource path", font))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDescriptor, strings.Join(problems, "; "))
	}
	return nil
}
