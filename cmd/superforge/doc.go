// Package main hosts the superforge CLI entrypoint and command graph.
//
// The Cobra command tree exposes the partition tables (locate, sections),
// per-book manifests and build descriptors, the content store (books,
// chapters, runs), the batch build pipeline, the doctor checks and the
// read-only HTTP API. Configuration resolution and logger setup live in the
// shared commandContext so subcommands only parse arguments and render
// results.
//
// Add functionality to the internal packages first and surface it here.
package main
