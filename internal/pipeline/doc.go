// Package pipeline drives batch builds over the ten books.
//
// Build takes an exclusive file lock on the books directory, records a build
// run in the content store and processes the requested books concurrently,
// bounded by build.jobs. Each book is handled independently: its manifest is
// assembled, the descriptor and both metadata documents are written
// atomically into the book's html directory, the encoded descriptor is saved
// in the store, and optionally the manifest documents are checked for
// existence and the external converter is run. A failing book never cancels
// the others, and books complete in no particular order; Results are sorted
// by book before being returned.
package pipeline
