package cache

import (
	"context"
	"time"
)

// NullCache backs runs started with --no-cache: design snapshots and
// rendered artifacts are never stored, so every run reads the benchmark
// files again.
type NullCache struct{}

// NewNullCache returns a cache that misses on every lookup.
func NewNullCache() Cache { return &NullCache{} }

// Get reports a miss.
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards data.
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*NullCache) Delete(context.Context, string) error { return nil }

func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
