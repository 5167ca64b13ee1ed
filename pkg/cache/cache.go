// Package cache provides pluggable byte caches for rendered preview
// artifacts.
//
// The translation pipeline itself is pure and needs no cache; what is worth
// caching is the in-process Graphviz preview rendering, which is orders of
// magnitude slower than translation. Artifacts are keyed by a content hash of
// the diagram source plus the render options, so identical input always maps
// to the same key.
//
// Backends:
//   - [FileCache]: persistent, for CLI usage
//   - [MemoryCache]: bounded in-process LRU, for the HTTP server
//   - [RedisCache]: shared, for multi-instance deployments
//   - [NullCache]: disabled caching
package cache

import (
	"context"
	"time"
)

// DefaultTTL is the default artifact expiration.
const DefaultTTL = 24 * time.Hour

// Cache is a byte-oriented cache with TTL support.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl stores without expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ArtifactKeyOpts are the render options that participate in an artifact key.
type ArtifactKeyOpts struct {
	Format   string // output format, e.g. "svg" or "dot"
	Detailed bool   // include technology/description detail in preview nodes
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey generates a key for a rendered artifact from the hash of
	// the diagram source and the render options.
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// ArtifactKey generates a key of the form artifact:<hash>.
func (k *DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sourceHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, e.g. one
// namespace per tenant when the API server is shared.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sourceHash, opts)
}
