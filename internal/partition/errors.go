package partition

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidChapter = errors.New("invalid chapter")
	ErrInvalidSection = errors.New("invalid section")
	ErrBookNotFound   = errors.New("book not found")
)

// InvalidChapterError reports a chapter number outside the published range or
// one of the skipped numbers.
type InvalidChapterError struct {
	Chapter int
	Skipped bool
}

func (e *InvalidChapterError) Error() string {
	if e.Skipped {
		return fmt.Sprintf("invalid chapter %d: chapter was never published", e.Chapter)
	}
	return fmt.Sprintf("invalid chapter %d: must be between %d and %d", e.Chapter, FirstChapter, LastChapter)
}

func (e *InvalidChapterError) Is(target error) bool { return target == ErrInvalidChapter }

// ErrorKind classifies the error for callers that map failures to statuses.
func (e *InvalidChapterError) ErrorKind() string { return "validation" }

// InvalidSectionError reports a section number outside [1, SectionCount].
type InvalidSectionError struct {
	Section int
}

func (e *InvalidSectionError) Error() string {
	return fmt.Sprintf("invalid section %d: must be between 1 and %d", e.Section, SectionCount)
}

func (e *InvalidSectionError) Is(target error) bool { return target == ErrInvalidSection }

func (e *InvalidSectionError) ErrorKind() string { return "validation" }

// BookNotFoundError reports a book number outside [1, BookCount].
type BookNotFoundError struct {
	Book int
}

func (e *BookNotFoundError) Error() string {
	return fmt.Sprintf("book %d not found: must be between 1 and %d", e.Book, BookCount)
}

func (e *BookNotFoundError) Is(target error) bool { return target == ErrBookNotFound }

func (e *BookNotFoundError) ErrorKind() string { return "not_found" }
