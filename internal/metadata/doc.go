// Package metadata produces the two per-book metadata documents the converter
// reads alongside the build descriptor: epub-meta{book}.yaml (EPUB package
// metadata such as titles, creators, collection and identifier) and
// meta{book}.yaml (document title and author).
package metadata
