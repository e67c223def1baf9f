// Package httpapi serves a read-only HTTP view of the partition tables,
// book manifests and build descriptors.
//
// Routes are mounted on a chi router behind request IDs, panic recovery,
// structured request logging, an optional bearer token and a per-IP rate
// limit. Encoded descriptors are cached for server.cache_ttl_seconds. Typed
// partition errors map to 400 (invalid chapter or section) and 404 (unknown
// book); other failures are 500.
package httpapi
