// Package descriptor renders the per-book build descriptor handed to the
// external EPUB converter and encodes it as YAML.
//
// Render combines a manifest with the book's non-content resources (stylesheet,
// fonts, images and the two metadata documents). The key order of the encoded
// document is fixed by the Descriptor field order and must not change; the
// converter reads it positionally in places.
package descriptor
