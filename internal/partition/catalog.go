package partition

import (
	"errors"
	"fmt"
	"iter"
)

// ErrInconsistentTable reports a defect in the static partition tables.
var ErrInconsistentTable = errors.New("inconsistent partition table")

// SectionInfo summarizes a section for listings.
type SectionInfo struct {
	Section  int `json:"section" yaml:"section"`
	Book     int `json:"book" yaml:"book"`
	Part     int `json:"part" yaml:"part"`
	Start    int `json:"start" yaml:"start"`
	End      int `json:"end" yaml:"end"`
	Chapters int `json:"chapters" yaml:"chapters"`
}

// RangeOf returns the inclusive chapter bounds of section. Skipped chapters
// inside the range are still reported by the bounds; use ChaptersOf for
// membership.
func RangeOf(section int) (start, end int, err error) {
	if err := ValidateSection(section); err != nil {
		return 0, 0, err
	}
	start = FirstChapter
	if section > 1 {
		start = sectionBounds[section-2] + 1
	}
	return start, sectionBounds[section-1], nil
}

// ChapterSeq yields the chapters of section in ascending order. The sequence
// is restartable; each range over it starts from the first chapter again.
// An invalid section yields nothing.
func ChapterSeq(section int) iter.Seq[int] {
	start, end, err := RangeOf(section)
	return func(yield func(int) bool) {
		if err != nil {
			return
		}
		for chapter := start; chapter <= end; chapter++ {
			if IsSkipped(chapter) {
				continue
			}
			if !yield(chapter) {
				return
			}
		}
	}
}

// ChaptersOf returns the chapters of section in ascending order.
func ChaptersOf(section int) ([]int, error) {
	start, end, err := RangeOf(section)
	if err != nil {
		return nil, err
	}
	chapters := make([]int, 0, end-start+1)
	for chapter := range ChapterSeq(section) {
		chapters = append(chapters, chapter)
	}
	return chapters, nil
}

// ChapterCount returns how many published chapters section contains.
func ChapterCount(section int) (int, error) {
	start, end, err := RangeOf(section)
	if err != nil {
		return 0, err
	}
	count := end - start + 1
	for skipped := range skippedChapters {
		if skipped >= start && skipped <= end {
			count--
		}
	}
	return count, nil
}

// Describe returns the summary of a single section.
func Describe(section int) (SectionInfo, error) {
	start, end, err := RangeOf(section)
	if err != nil {
		return SectionInfo{}, err
	}
	book, err := BookOfSection(section)
	if err != nil {
		return SectionInfo{}, err
	}
	part, err := PartOfSection(section)
	if err != nil {
		return SectionInfo{}, err
	}
	count, err := ChapterCount(section)
	if err != nil {
		return SectionInfo{}, err
	}
	return SectionInfo{
		Section:  section,
		Book:     book,
		Part:     part,
		Start:    start,
		End:      end,
		Chapters: count,
	}, nil
}

// Catalog returns the summary of every section in ascending order.
func Catalog() []SectionInfo {
	out := make([]SectionInfo, 0, SectionCount)
	for _, section := range Sections() {
		info, err := Describe(section)
		if err != nil {
			continue
		}
		out = append(out, info)
	}
	return out
}

// Verify checks the static tables: section bounds strictly increase and end
// at LastChapter, every skipped chapter lies inside the published range, and
// books 1-3 own one section while books 4-10 own two consecutive sections.
func Verify() error {
	prev := FirstChapter - 1
	for idx, bound := range sectionBounds {
		if bound <= prev {
			return fmt.Errorf("%w: section %d ends at %d, not after %d", ErrInconsistentTable, idx+1, bound, prev)
		}
		prev = bound
	}
	if prev != LastChapter {
		return fmt.Errorf("%w: last section ends at %d, want %d", ErrInconsistentTable, prev, LastChapter)
	}
	for skipped := range skippedChapters {
		if skipped < FirstChapter || skipped > LastChapter {
			return fmt.Errorf("%w: skipped chapter %d outside published range", ErrInconsistentTable, skipped)
		}
	}

	counts := make(map[int]int, BookCount)
	prevBook := 0
	for idx, book := range sectionBooks {
		if book < prevBook || book > prevBook+1 {
			return fmt.Errorf("%w: section %d maps to book %d after book %d", ErrInconsistentTable, idx+1, book, prevBook)
		}
		prevBook = book
		counts[book]++
	}
	for _, book := range Books() {
		want := 2
		if book <= 3 {
			want = 1
		}
		if counts[book] != want {
			return fmt.Errorf("%w: book %d owns %d sections, want %d", ErrInconsistentTable, book, counts[book], want)
		}
	}
	return nil
}

// Location places a chapter within the series.
type Location struct {
	Chapter int `json:"chapter" yaml:"chapter"`
	Section int `json:"section" yaml:"section"`
	Book    int `json:"book" yaml:"book"`
	Part    int `json:"part" yaml:"part"`
}

// Locate resolves the section, book and part of chapter.
func Locate(chapter int) (Location, error) {
	section, err := SectionOf(chapter)
	if err != nil {
		return Location{}, err
	}
	book, err := BookOfSection(section)
	if err != nil {
		return Location{}, err
	}
	part, err := PartOfSection(section)
	if err != nil {
		return Location{}, err
	}
	return Location{Chapter: chapter, Section: section, Book: book, Part: part}, nil
}
