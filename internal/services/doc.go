// Package services defines shared utilities consumed by the build pipeline,
// the converter runner and the HTTP API.
//
// Key responsibilities:
//   - Context helpers that stamp book numbers, build run IDs and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper, and Kind, which maps any
//     error (including the typed partition errors) onto a stable category used
//     for exit codes, HTTP statuses and stored run results.
package services
