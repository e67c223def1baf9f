package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"superforge/internal/partition"
)

// parseNumber parses a positional integer argument such as a chapter or
// book number.
func parseNumber(name, raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a number", name, raw)
	}
	return value, nil
}

func parseBook(raw string) (int, error) {
	book, err := parseNumber("book", raw)
	if err != nil {
		return 0, err
	}
	if err := partition.ValidateBook(book); err != nil {
		return 0, err
	}
	return book, nil
}

func parseBooks(args []string) ([]int, error) {
	books := make([]int, 0, len(args))
	for _, arg := range args {
		book, err := parseBook(arg)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Millisecond).String()
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
