package partition

import "sort"

// ValidateChapter returns an *InvalidChapterError when chapter is outside the
// published range or was never published.
func ValidateChapter(chapter int) error {
	if chapter < FirstChapter || chapter > LastChapter {
		return &InvalidChapterError{Chapter: chapter}
	}
	if IsSkipped(chapter) {
		return &InvalidChapterError{Chapter: chapter, Skipped: true}
	}
	return nil
}

// ValidateSection returns an *InvalidSectionError for numbers outside [1, SectionCount].
func ValidateSection(section int) error {
	if section < 1 || section > SectionCount {
		return &InvalidSectionError{Section: section}
	}
	return nil
}

// ValidateBook returns a *BookNotFoundError for numbers outside [1, BookCount].
func ValidateBook(book int) error {
	if book < 1 || book > BookCount {
		return &BookNotFoundError{Book: book}
	}
	return nil
}

// SectionOf returns the section whose chapter range contains chapter.
func SectionOf(chapter int) (int, error) {
	if err := ValidateChapter(chapter); err != nil {
		return 0, err
	}
	idx := sort.SearchInts(sectionBounds[:], chapter)
	if idx >= SectionCount {
		return 0, &InvalidChapterError{Chapter: chapter}
	}
	return idx + 1, nil
}

// BookOfSection returns the book that owns section.
func BookOfSection(section int) (int, error) {
	if err := ValidateSection(section); err != nil {
		return 0, err
	}
	return sectionBooks[section-1], nil
}

// BookOfChapter returns the book that owns chapter.
func BookOfChapter(chapter int) (int, error) {
	section, err := SectionOf(chapter)
	if err != nil {
		return 0, err
	}
	return BookOfSection(section)
}

// SectionsOf returns the sections owned by book in ascending order.
func SectionsOf(book int) ([]int, error) {
	if err := ValidateBook(book); err != nil {
		return nil, err
	}
	var sections []int
	for idx, owner := range sectionBooks {
		if owner == book {
			sections = append(sections, idx+1)
		}
	}
	return sections, nil
}

// PartOfSection returns 0 when section is the only section of its book,
// 1 for the lower-numbered section of a two-section book and 2 for the
// higher-numbered one.
func PartOfSection(section int) (int, error) {
	book, err := BookOfSection(section)
	if err != nil {
		return 0, err
	}
	siblings, err := SectionsOf(book)
	if err != nil {
		return 0, err
	}
	if len(siblings) < 2 {
		return 0, nil
	}
	if section == siblings[0] {
		return 1, nil
	}
	return 2, nil
}
