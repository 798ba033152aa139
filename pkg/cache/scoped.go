package cache

// ScopedKeyer wraps a Keyer with a prefix so that several network stores
// can share one cache backend without key collisions.
//
// Example usage:
//
//	// Results computed on networks from the Mongo store
//	mongoKeyer := NewScopedKeyer(NewDefaultKeyer(), "mongo:")
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
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// NetworkKey generates a prefixed network key.
func (k *ScopedKeyer) NetworkKey(source, name string) string {
	return k.prefix + k.inner.NetworkKey(source, name)
}

// QueryKey generates a prefixed query result key.
func (k *ScopedKeyer) QueryKey(networkHash string, opts QueryKeyOpts) string {
	return k.prefix + k.inner.QueryKey(networkHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(resultHash, opts)
}

// ResultKey generates a prefixed result key.
func (k *ScopedKeyer) ResultKey(id string) string {
	return k.prefix + k.inner.ResultKey(id)
}
