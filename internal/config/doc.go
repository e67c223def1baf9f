// Package config loads, normalizes, and validates superforge configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// SUPERFORGE_BOOKS_DIR. The Config type centralizes every knob the CLI, the
// build pipeline and the HTTP API need, and converts them into the plain
// values the pure book packages take (manifest.Layout, descriptor.Resources,
// metadata.Options).
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
