// Package content persists the series' books, chapters, rendered build
// descriptors and build runs in SQLite.
//
// The Store is the content-store collaborator of the partition and manifest
// packages: chapter rows carry the section and book derived from the static
// partition tables at insert time, and MissingChapters compares a book's
// chapter membership against what has been stored. The pure core never
// receives a Store handle; callers query the store and pass facts in.
//
// Schema changes bump schemaVersion in schema.go; users delete the database
// to adopt the new schema.
package content
