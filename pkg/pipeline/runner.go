package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pathquery/pkg/cache"
	"github.com/matzehuels/pathquery/pkg/network"
	"github.com/matzehuels/pathquery/pkg/observability"

	pqerrors "github.com/matzehuels/pathquery/pkg/errors"
	pqio "github.com/matzehuels/pathquery/pkg/io"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete query → complete → render pipeline with caching.
//
// The query itself cannot be interrupted, so it runs in its own goroutine;
// when ctx ends first Execute returns ctx's error (as ErrCodeTimeout for
// deadlines) and the result is discarded.
func (r *Runner) Execute(ctx context.Context, n *network.Network, opts Options) (*Result, error) {
	if n == nil {
		return nil, pqerrors.New(pqerrors.ErrCodeInvalidInput, "network cannot be nil")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hash, err := NetworkHash(n)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Query().OnQueryStart(ctx, opts.Algorithm, n.Name)
	res, err := r.query(ctx, n, hash, opts)
	if err != nil {
		observability.Query().OnQueryComplete(ctx, opts.Algorithm, n.Name, 0, time.Since(start), err)
		return nil, err
	}
	res.Stats.QueryTime = time.Since(start)
	observability.Query().OnQueryComplete(ctx, opts.Algorithm, n.Name, res.Size(), res.Stats.QueryTime, nil)

	r.Logger.Info("ran query",
		"algorithm", opts.Algorithm,
		"network", n.Name,
		"nodes", res.Stats.NodeCount,
		"edges", res.Stats.EdgeCount,
		"cached", res.CacheHit,
		"duration", res.Stats.QueryTime)

	renderStart := time.Now()
	artifacts, err := r.Render(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	res.Artifacts = artifacts
	res.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"duration", res.Stats.RenderTime)

	return res, nil
}

// query returns the cached result for (hash, opts) or computes and caches it.
func (r *Runner) query(ctx context.Context, n *network.Network, hash string, opts Options) (*Result, error) {
	key := r.Keyer.QueryKey(hash, opts.QueryKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		var cached Result
		err := cache.GetJSON(ctx, r.Cache, key, &cached)
		switch {
		case err == nil:
			hooks.OnCacheHit(ctx, "query")
			cached.CacheHit = true
			return &cached, nil
		case errors.Is(err, cache.ErrCacheMiss):
			hooks.OnCacheMiss(ctx, "query")
		default:
			r.Logger.Warn("cache read failed", "key", key, "error", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type outcome struct {
		res *Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := Query(n, opts)
		done <- outcome{res, err}
	}()

	var res *Result
	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, pqerrors.Wrap(pqerrors.ErrCodeTimeout, ctx.Err(), "%s query on %q", opts.Algorithm, n.Name)
		}
		return nil, ctx.Err()
	case out := <-done:
		if out.err != nil {
			return nil, out.err
		}
		res = out.res
	}
	res.NetworkHash = hash

	if size, err := cache.SetJSON(ctx, r.Cache, key, res, cache.TTLQuery); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
	} else {
		hooks.OnCacheSet(ctx, "query", size)
	}
	return res, nil
}

// Render generates artifacts with caching. Artifacts are keyed by the
// result content, so equal results share rendered output.
func (r *Runner) Render(ctx context.Context, res *Result, opts Options) (map[string][]byte, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Query().OnRenderStart(ctx, opts.Formats)
	artifacts, err := r.render(ctx, res, opts)
	observability.Query().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func (r *Runner) render(ctx context.Context, res *Result, opts Options) (map[string][]byte, error) {
	// CacheHit and timings differ between otherwise equal results.
	keyed := *res
	keyed.CacheHit = false
	keyed.Stats.QueryTime, keyed.Stats.RenderTime = 0, 0
	data, err := MarshalResult(&keyed)
	if err != nil {
		return nil, fmt.Errorf("serialize result for cache key: %w", err)
	}
	resultHash := cache.Hash(data)
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		// JSON carries the live cache flag and is cheap, so it is never cached.
		if format == FormatJSON {
			missing = append(missing, format)
			continue
		}
		key := r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			hooks.OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		hooks.OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, err := Render(res, sub)
	if err != nil {
		return nil, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		if format == FormatJSON {
			continue
		}
		key := r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			hooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, nil
}

// NetworkHash returns the content hash of n's JSON encoding.
func NetworkHash(n *network.Network) (string, error) {
	var buf bytes.Buffer
	if err := pqio.WriteNetwork(n, &buf, pqio.FormatJSON); err != nil {
		return "", fmt.Errorf("hash network: %w", err)
	}
	return cache.Hash(buf.Bytes()), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
