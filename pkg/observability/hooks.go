// Package observability lets pathquery report query, cache and HTTP events
// to a metrics backend without depending on one.
//
// Libraries call the current hooks; main registers implementations once at
// startup. Until then every hook is a no-op. The prometheus subpackage is
// the backend shipped with the serve command:
//
//	h := promhooks.New(prometheus.DefaultRegisterer)
//	observability.Register(h)
//	defer observability.Reset()
//
// Emitting an event:
//
//	start := time.Now()
//	observability.Query().OnQueryStart(ctx, "neighborhood", "p53")
//	res, err := run()
//	observability.Query().OnQueryComplete(ctx, "neighborhood", "p53", len(res), time.Since(start), err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// QueryHooks receives events from the query runner. algorithm is one of
// neighborhood, paths, between, common or search; resultSize counts result
// nodes, or matches for a pattern search.
type QueryHooks interface {
	OnQueryStart(ctx context.Context, algorithm, network string)
	OnQueryComplete(ctx context.Context, algorithm, network string, resultSize int, duration time.Duration, err error)
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives events from cache lookups. keyType is network, query,
// artifact or result.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the API server. route is the matched chi
// pattern rather than the raw path, which keeps label cardinality bounded.
// OnRequest fires before routing, so its route may be empty.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// NoopQueryHooks ignores every query event.
type NoopQueryHooks struct{}

func (NoopQueryHooks) OnQueryStart(context.Context, string, string) {}
func (NoopQueryHooks) OnQueryComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopQueryHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopQueryHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every HTTP event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// registry is an immutable snapshot of the installed hooks. Setters swap in
// a modified copy, so readers on hot paths never take a lock.
type registry struct {
	query QueryHooks
	cache CacheHooks
	http  HTTPHooks
}

var current atomic.Pointer[registry]

func init() { Reset() }

func update(fn func(r *registry)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetQueryHooks installs h as the query hooks. A nil h is ignored.
func SetQueryHooks(h QueryHooks) {
	if h != nil {
		update(func(r *registry) { r.query = h })
	}
}

// SetCacheHooks installs h as the cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks installs h as the HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// Register installs v for every hook interface it implements and reports
// how many it matched.
func Register(v any) int {
	n := 0
	if h, ok := v.(QueryHooks); ok {
		SetQueryHooks(h)
		n++
	}
	if h, ok := v.(CacheHooks); ok {
		SetCacheHooks(h)
		n++
	}
	if h, ok := v.(HTTPHooks); ok {
		SetHTTPHooks(h)
		n++
	}
	return n
}

// Query returns the installed query hooks.
func Query() QueryHooks { return current.Load().query }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return current.Load().http }

// Reset restores the no-op hooks.
func Reset() {
	current.Store(&registry{
		query: NoopQueryHooks{},
		cache: NoopCacheHooks{},
		http:  NoopHTTPHooks{},
	})
}
