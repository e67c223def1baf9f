// Package partition maps raw chapter numbers onto the section and book that
// own them.
//
// The series is published as chapters 1 through 3462, minus two numbers that
// were never released. Seventeen sections each own a contiguous run of those
// chapters, and ten books group the sections: books 1-3 hold one section each,
// books 4-10 hold two consecutive sections (a "part one" and a "part two").
//
// Every lookup is derived from one boundary table and one section-to-book
// table declared in table.go. Nothing here performs I/O or holds mutable
// state, so the functions are safe to call from any goroutine.
//
// # Entry Points
//
// SectionOf, BookOfSection, BookOfChapter, PartOfSection: index lookups.
// SectionsOf: the inverse of BookOfSection, ascending.
// ChaptersOf, ChapterSeq, RangeOf, Describe, Catalog: section membership.
// Verify: consistency check over the static tables.
//
// Invalid inputs produce *InvalidChapterError, *InvalidSectionError or
// *BookNotFoundError, each carrying the offending value and matching the
// ErrInvalidChapter, ErrInvalidSection and ErrBookNotFound sentinels.
package partition
