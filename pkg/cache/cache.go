// Package cache provides the pluggable byte cache used by the registry
// version resolver.
//
// The resolver is handed a Cache at construction instead of keeping an
// implicit module-level map, so staleness is controlled by the caller:
// tests inject a memory or null cache, the CLI uses a file cache under the
// user cache directory, and long-running deployments can point at Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores opaque byte values under string keys with a per-entry TTL.
// A TTL of zero means the entry never expires. Implementations report a
// miss as (nil, false, nil); errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Hash computes the SHA-256 hash of data as a 64-character hex string.
// Backends use it to derive safe storage names from arbitrary keys.
func Hash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Namespaced returns a view of c that prefixes every key, keeping data from
// different registries (or tenants) from colliding in a shared backend.
func Namespaced(c Cache, prefix string) Cache {
	return &namespaced{inner: c, prefix: prefix}
}

type namespaced struct {
	inner  Cache
	prefix string
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return n.inner.Set(ctx, n.prefix+key, data, ttl)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}

func (n *namespaced) Close() error { return n.inner.Close() }
