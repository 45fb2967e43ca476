// Package cache stores converted intermediate results between runs.
//
// Loading a large benchmark is dominated by text parsing, so the pipeline
// caches a binary snapshot of the parsed design keyed by the content hash of
// its input files and the row settings used to read them. A second run on
// unchanged inputs skips parsing entirely.
//
// # Backends
//
//   - [FileCache]: sharded files under a directory, for CLI use
//   - [NullCache]: never stores anything, used with --no-cache
//
// # Keys
//
// Keys come from a [Keyer]. [DefaultKeyer] hashes the key options so any
// setting that changes the parse result also changes the key. A
// [ScopedKeyer] prefixes every key, which keeps caches of different tools or
// versions apart in a shared directory.
//
// Values are encoded with msgpack; see [GetValue] and [SetValue].
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}
