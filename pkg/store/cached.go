package store

import (
	"bytes"
	"context"

	"github.com/matzehuels/pathquery/pkg/cache"
	pqio "github.com/matzehuels/pathquery/pkg/io"
	"github.com/matzehuels/pathquery/pkg/network"
	"github.com/matzehuels/pathquery/pkg/observability"
)

const networkKeyType = "network"

// CachedStore serves Load from a cache and keeps it coherent on Save and
// Delete. Cache failures degrade to direct store access.
type CachedStore struct {
	Store
	cache  cache.Cache
	keyer  cache.Keyer
	source string
}

// Cached wraps s. source names the backend in cache keys so two stores
// sharing one cache do not collide. A nil keyer means the default keyer.
func Cached(s Store, c cache.Cache, keyer cache.Keyer, source string) *CachedStore {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &CachedStore{Store: s, cache: c, keyer: keyer, source: source}
}

// Load returns the cached copy of the named network, falling back to the
// wrapped store on a miss.
func (s *CachedStore) Load(ctx context.Context, name string) (*network.Network, error) {
	key := s.keyer.NetworkKey(s.source, name)
	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		n, err := pqio.ReadNetwork(bytes.NewReader(data), pqio.FormatJSON)
		if err == nil {
			observability.Cache().OnCacheHit(ctx, networkKeyType)
			return n, nil
		}
		_ = s.cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, networkKeyType)

	n, err := s.Store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pqio.WriteNetwork(n, &buf, pqio.FormatJSON); err == nil {
		if s.cache.Set(ctx, key, buf.Bytes(), cache.TTLNetwork) == nil {
			observability.Cache().OnCacheSet(ctx, networkKeyType, buf.Len())
		}
	}
	return n, nil
}

// Save stores n and drops its cached copy.
func (s *CachedStore) Save(ctx context.Context, n *network.Network) error {
	if err := s.Store.Save(ctx, n); err != nil {
		return err
	}
	return s.cache.Delete(ctx, s.keyer.NetworkKey(s.source, n.Name))
}

// Delete removes the named network and its cached copy.
func (s *CachedStore) Delete(ctx context.Context, name string) error {
	if err := s.Store.Delete(ctx, name); err != nil {
		return err
	}
	return s.cache.Delete(ctx, s.keyer.NetworkKey(s.source, name))
}

// Close closes the wrapped store. The cache is owned by the caller.
func (s *CachedStore) Close() error {
	return s.Store.Close()
}
