// Package preflight provides readiness checks for the filesystem paths,
// content database and converter binary that superforge depends on.
//
// These checks run in two contexts:
//   - "superforge doctor" prints every result and exits non-zero on failure.
//   - "superforge build --convert" runs RunAll first and refuses to start a
//     batch that would fail on every book.
//
// Optional paths are only checked when configured.
package preflight
