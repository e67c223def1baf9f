// Package logging assembles the structured slog loggers used across
// superforge.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code automatically
// tags log lines with the book number, build run ID and request ID. A no-op
// logger is provided for tests and wiring code that cannot fail.
package logging
