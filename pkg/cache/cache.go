// Package cache provides byte-level caching of rendered diagram
// artifacts, keyed by a hash of the source text and render options.
//
// Backends:
//   - file: directory-based storage for CLI usage
//   - redis: shared storage for the preview server
//   - null: disabled caching for tests and one-shot runs
//
// All backends implement [Cache] and are safe to swap behind it.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with an optional TTL.
type Cache interface {
	// Get retrieves a value. The second return reports a hit; a miss is
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl stores it without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
