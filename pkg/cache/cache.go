// Package cache memoizes rendered evaluation artifacts.
//
// A seeded evaluation is fully deterministic, so its rendered bytes can be
// reused for identical requests. Image formats go through Graphviz and
// rsvg-convert and dominate request latency; caching them is what keeps
// repeated /v1/chain.png?seed=... calls cheap.
//
// Entries live in memory only and are lost on restart.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte slices under string keys.
type Cache interface {
	// Get returns the cached data and true on a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key if present.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
