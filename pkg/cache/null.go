package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. With it every query recomputes its result and
// every artifact is rendered again; the API cannot serve results by id,
// since those live only in the cache.
type NullCache struct{}

var _ Cache = NullCache{}

// NewNullCache returns the cache used for --no-cache and backend "none".
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
