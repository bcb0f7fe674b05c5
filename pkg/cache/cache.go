// Package cache stores rendered artifacts keyed by the hash of their source.
//
// # Backends
//
// Every backend implements [Cache]:
//
//   - [NullCache]: never stores anything, used when caching is disabled and
//     inside the browser build
//   - [MemoryCache]: process-local map with TTL expiry, the server default
//   - [FileCache]: JSON entries under a sharded directory, the CLI default
//   - [RedisCache]: shared cache for several server replicas
//   - [MongoCache]: shared cache when a MongoDB deployment already exists
//
// [Open] builds the backend named in a [Config].
//
// # Keys
//
// Keys are produced by a [Keyer] so that every backend sees the same layout:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArtifactKey(cache.Hash([]byte(src)), cache.ArtifactKeyOpts{Format: "svg", View: "sketch"})
//
// [ScopedKeyer] prefixes keys, which the CLI uses to keep entries from
// different builds apart.
//
// # Semantics
//
// Get reports a miss with hit=false and a nil error. Errors are reserved for
// backend failures; callers treat them as misses and log them. Entries written
// with a zero TTL never expire.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs.
const (
	// ArtifactTTL is how long rendered SVG output is kept.
	ArtifactTTL = 7 * 24 * time.Hour

	// MemoryTTL bounds entries in the in-process cache.
	MemoryTTL = time.Hour
)
