package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"superforge/internal/descriptor"
	"superforge/internal/partition"
	"superforge/internal/textutil"
)

const bookColumns = "book, title, output_file, uuid, updated_at"

// EnsureBooks seeds a row for every book that does not have one yet. New
// rows receive a random identifier and the default output filename.
func (s *Store) EnsureBooks(ctx context.Context) error {
	now := formatTime(time.Now())
	for _, book := range partition.Books() {
		if _, err := s.execWithRetry(ctx,
			`INSERT OR IGNORE INTO books (book, title, output_file, uuid, updated_at) VALUES (?, '', ?, ?, ?)`,
			book, descriptor.DefaultOutputFile(book), uuid.NewString(), now,
		); err != nil {
			return fmt.Errorf("seed book %d: %w", book, err)
		}
	}
	return nil
}

// UpsertBook inserts or replaces a book row. A zero UUID keeps the stored
// identifier or assigns a new one; an empty OutputFile is derived from the title.
func (s *Store) UpsertBook(ctx context.Context, rec Book) (*Book, error) {
	if err := partition.ValidateBook(rec.Book); err != nil {
		return nil, err
	}
	rec.Title = strings.TrimSpace(rec.Title)
	if strings.TrimSpace(rec.OutputFile) == "" {
		rec.OutputFile = textutil.OutputFileName(rec.Title, descriptor.DefaultOutputFile(rec.Book))
	}
	id := rec.UUID
	if id == uuid.Nil {
		existing, err := s.Book(ctx, rec.Book)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			id = existing.UUID
		} else {
			id = uuid.New()
		}
	}

	if _, err := s.execWithRetry(ctx,
		`INSERT INTO books (book, title, output_file, uuid, updated_at) VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(book) DO UPDATE SET
            title = excluded.title,
            output_file = excluded.output_file,
            uuid = excluded.uuid,
            updated_at = excluded.updated_at`,
		rec.Book, rec.Title, rec.OutputFile, id.String(), formatTime(time.Now()),
	); err != nil {
		return nil, fmt.Errorf("upsert book %d: %w", rec.Book, err)
	}
	return s.Book(ctx, rec.Book)
}

// SetTitle stores a book title and re-derives its output filename.
func (s *Store) SetTitle(ctx context.Context, book int, title string) (*Book, error) {
	return s.UpsertBook(ctx, Book{Book: book, Title: title})
}

// Book fetches a book row. A missing row yields (nil, nil).
func (s *Store) Book(ctx context.Context, book int) (*Book, error) {
	if err := partition.ValidateBook(book); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+bookColumns+` FROM books WHERE book = ?`, book)
	rec, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", book, err)
	}
	return rec, nil
}

// Books lists stored books in ascending order.
func (s *Store) Books(ctx context.Context) ([]Book, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT `+bookColumns+` FROM books ORDER BY book`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		rec, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func scanBook(scanner interface{ Scan(dest ...any) error }) (*Book, error) {
	var (
		book       int
		title      string
		outputFile string
		idRaw      string
		updatedRaw string
	)
	if err := scanner.Scan(&book, &title, &outputFile, &idRaw, &updatedRaw); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idRaw)
	if err != nil {
		return nil, fmt.Errorf("book %d uuid: %w", book, err)
	}
	rec := &Book{Book: book, Title: title, OutputFile: outputFile, UUID: id}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		rec.UpdatedAt = updated
	}
	return rec, nil
}
