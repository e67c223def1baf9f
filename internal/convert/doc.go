// Package convert runs the external document converter that turns a book's
// HTML documents and build descriptor into an EPUB.
//
// The Client invokes `<binary> --defaults sg{book}.yaml [extra args]` inside
// the book's html directory, bounds each attempt with the configured timeout
// and retries attempts that timed out or were killed by a signal. Failures are
// tagged with services markers so callers can classify them: a missing binary
// is ErrNotFound, a non-zero exit is ErrExternalTool, an expired attempt is
// ErrTimeout. Tests inject an Executor or a stub binary on PATH.
package convert
