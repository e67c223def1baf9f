// Package manifest assembles the ordered list of content documents that make
// up one book and names those documents on disk.
//
// A manifest always has the same shape: the book's cover and title page,
// then each owned section page followed by that section's chapters in
// ascending order, and finally the end-of-book page. Build is pure; it
// consults only the static partition tables and either returns the whole
// manifest or an error, never a partial list.
//
// Layout maps document references to full paths under the books directory
// (<books_dir>/bookNN/html/<filename>). Callers choose between bare filenames
// and full paths with Manifest.Render; both forms keep the same order and
// length.
package manifest
