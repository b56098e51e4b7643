// Package cache stores engine results keyed by content hashes.
//
// Placements and walkthroughs are pure functions of a tree snapshot and the
// engine configuration, so a result can be cached under a key derived from
// both. Three backends implement [Cache]:
//
//   - [FileCache]: sharded JSON files, the CLI default
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer]. [ScopedKeyer] adds a prefix so several
// tenants can share one backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the cached value and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Default TTLs per result kind.
const (
	TTLPlacement   = 7 * 24 * time.Hour
	TTLWalkthrough = 7 * 24 * time.Hour
	TTLArtifact    = 24 * time.Hour
)

// Keyer derives cache keys.
type Keyer interface {
	// PlacementKey keys the placements of a tree under a placement profile set.
	PlacementKey(treeHash, profilesHash string) string
	// WalkthroughKey keys a walkthrough of a tree from start under a layout config.
	WalkthroughKey(treeHash, start, configHash string) string
	// ArtifactKey keys a rendered export of a walkthrough or tree.
	ArtifactKey(sourceHash, format string) string
}
