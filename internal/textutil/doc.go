// Package textutil provides text helpers shared by the book pipeline: title
// casing for book and chapter titles, spelled-out book numbers, and filename
// sanitization for converter output files.
package textutil
