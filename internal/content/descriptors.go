package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"superforge/internal/partition"
)

// SaveDescriptor stores the encoded descriptor text for book, replacing any
// previous version.
func (s *Store) SaveDescriptor(ctx context.Context, book int, body []byte, inputCount int) error {
	if err := partition.ValidateBook(book); err != nil {
		return err
	}
	if len(body) == 0 {
		return fmt.Errorf("save descriptor for book %d: empty body", book)
	}
	if _, err := s.execWithRetry(ctx,
		`INSERT INTO descriptors (book, body, input_count, generated_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(book) DO UPDATE SET
            body = excluded.body,
            input_count = excluded.input_count,
            generated_at = excluded.generated_at`,
		book, string(body), inputCount, formatTime(time.Now()),
	); err != nil {
		return fmt.Errorf("save descriptor for book %d: %w", book, err)
	}
	return nil
}

// Descriptor fetches the stored descriptor for book. A missing row yields (nil, nil).
func (s *Store) Descriptor(ctx context.Context, book int) (*Descriptor, error) {
	if err := partition.ValidateBook(book); err != nil {
		return nil, err
	}
	var (
		rec          Descriptor
		generatedRaw string
	)
	err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT book, body, input_count, generated_at FROM descriptors WHERE book = ?`, book,
	).Scan(&rec.Book, &rec.Body, &rec.InputCount, &generatedRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get descriptor for book %d: %w", book, err)
	}
	if generated, err := parseTimeString(generatedRaw); err == nil {
		rec.GeneratedAt = generated
	}
	return &rec, nil
}
