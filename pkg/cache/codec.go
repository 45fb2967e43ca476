package cache

import (
	"context"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// GetValue reads and decodes the value stored under key. Entries that fail
// to decode are deleted and reported as a miss.
func GetValue[T any](ctx context.Context, c Cache, key string) (T, bool, error) {
	var v T
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return v, false, err
	}
	if err := msgpack.Unmarshal(data, &v); err != nil {
		_ = c.Delete(ctx, key)
		var zero T
		return zero, false, nil
	}
	return v, true, nil
}

// SetValue encodes v and stores it under key. It returns the encoded size.
func SetValue(ctx context.Context, c Cache, key string, v any, ttl time.Duration) (int, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return 0, err
	}
	return len(data), c.Set(ctx, key, data, ttl)
}
