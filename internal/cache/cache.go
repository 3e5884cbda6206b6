// Package cache stores JSON-encoded values for read-mostly catalog data.
// Redis is used when configured; otherwise an in-process map with TTLs.
package cache

import (
	"context"
	"time"
)

// Store is a small JSON cache. Get reports a hit; a decoding failure counts as a miss.
type Store interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Driver() string
}
