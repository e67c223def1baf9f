package services

import "context"

type contextKey string

const (
	bookKey      contextKey = "book"
	runIDKey     contextKey = "run_id"
	requestIDKey contextKey = "request_id"
)

// WithBook annotates context with the book being processed.
func WithBook(ctx context.Context, book int) context.Context {
	return context.WithValue(ctx, bookKey, book)
}

// BookFromContext extracts the book number if present.
func BookFromContext(ctx context.Context) (int, bool) {
	book, ok := ctx.Value(bookKey).(int)
	if !ok || book <= 0 {
		return 0, false
	}
	return book, true
}

// WithRunID annotates context with the build run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext returns the build run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
