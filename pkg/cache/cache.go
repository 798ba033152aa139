// Package cache stores serialized query results and rendered artifacts.
//
// Running a query over a large interaction network is cheap compared to
// loading and wrapping the network, but repeated CLI and API calls with
// the same arguments are common. Results are cached under keys derived
// from the network content hash and the query options, so editing a
// network invalidates every result computed from it.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for the HTTP service
//   - [NullCache]: disables caching
//
// # Keys
//
// A [Keyer] builds keys; [ScopedKeyer] prefixes them so several networks
// stores or tenants can share one backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default entry lifetimes.
const (
	TTLNetwork  = 24 * time.Hour
	TTLQuery    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
