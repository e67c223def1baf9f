package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"superforge/internal/partition"
)

const chapterColumns = "chapter, section, book, title, html_path, updated_at"

// UpsertChapter stores a chapter title and optional HTML path. The section
// and book columns come from the partition tables; unpublished or out of
// range chapter numbers are rejected with *partition.InvalidChapterError.
func (s *Store) UpsertChapter(ctx context.Context, chapter int, title, htmlPath string) (*Chapter, error) {
	section, err := partition.SectionOf(chapter)
	if err != nil {
		return nil, err
	}
	book, err := partition.BookOfSection(section)
	if err != nil {
		return nil, err
	}

	if _, err := s.execWithRetry(ctx,
		`INSERT INTO chapters (chapter, section, book, title, html_path, updated_at) VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(chapter) DO UPDATE SET
            section = excluded.section,
            book = excluded.book,
            title = excluded.title,
            html_path = excluded.html_path,
            updated_at = excluded.updated_at`,
		chapter, section, book, strings.TrimSpace(title), nullableString(strings.TrimSpace(htmlPath)), formatTime(time.Now()),
	); err != nil {
		return nil, fmt.Errorf("upsert chapter %d: %w", chapter, err)
	}
	return s.Chapter(ctx, chapter)
}

// Chapter fetches a chapter row. A missing row yields (nil, nil).
func (s *Store) Chapter(ctx context.Context, chapter int) (*Chapter, error) {
	if err := partition.ValidateChapter(chapter); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+chapterColumns+` FROM chapters WHERE chapter = ?`, chapter)
	rec, err := scanChapter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chapter %d: %w", chapter, err)
	}
	return rec, nil
}

// ChaptersOfBook lists the stored chapters of book in ascending order.
func (s *Store) ChaptersOfBook(ctx context.Context, book int) ([]Chapter, error) {
	if err := partition.ValidateBook(book); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+chapterColumns+` FROM chapters WHERE book = ? ORDER BY chapter`, book)
	if err != nil {
		return nil, fmt.Errorf("list chapters of book %d: %w", book, err)
	}
	defer rows.Close()

	var out []Chapter
	for rows.Next() {
		rec, err := scanChapter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// ChapterCount returns how many chapters of book are stored.
func (s *Store) ChapterCount(ctx context.Context, book int) (int, error) {
	if err := partition.ValidateBook(book); err != nil {
		return 0, err
	}
	var count int
	if err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT COUNT(1) FROM chapters WHERE book = ?`, book,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count chapters of book %d: %w", book, err)
	}
	return count, nil
}

// MissingChapters returns the chapters that belong to book but have no
// stored row, in ascending order.
func (s *Store) MissingChapters(ctx context.Context, book int) ([]int, error) {
	sections, err := partition.SectionsOf(book)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT chapter FROM chapters WHERE book = ?`, book)
	if err != nil {
		return nil, fmt.Errorf("list stored chapters of book %d: %w", book, err)
	}
	defer rows.Close()

	stored := make(map[int]struct{})
	for rows.Next() {
		var chapter int
		if err := rows.Scan(&chapter); err != nil {
			return nil, fmt.Errorf("scan chapter number: %w", err)
		}
		stored[chapter] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []int
	for _, section := range sections {
		for chapter := range partition.ChapterSeq(section) {
			if _, ok := stored[chapter]; !ok {
				missing = append(missing, chapter)
			}
		}
	}
	return missing, nil
}

func scanChapter(scanner interface{ Scan(dest ...any) error }) (*Chapter, error) {
	var (
		rec        Chapter
		htmlPath   sql.NullString
		updatedRaw string
	)
	if err := scanner.Scan(&rec.Chapter, &rec.Section, &rec.Book, &rec.Title, &htmlPath, &updatedRaw); err != nil {
		return nil, err
	}
	rec.HTMLPath = htmlPath.String
	if updated, err := parseTimeString(updatedRaw); err == nil {
		rec.UpdatedAt = updated
	}
	return &rec, nil
}
