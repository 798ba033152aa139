// Package prometheus implements the observability hooks with Prometheus
// metrics.
//
//	h := prometheus.New(prom.DefaultRegisterer)
//	observability.Register(h)
package prometheus

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/pathquery/pkg/observability"
)

const namespace = "pathquery"

// Hooks records query, cache and HTTP events as Prometheus metrics.
type Hooks struct {
	queries       *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	resultSize    *prometheus.HistogramVec
	renders       *prometheus.CounterVec
	renderTime    prometheus.Histogram

	cacheEvents *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

// New creates the metrics and registers them with reg.
// It panics if a metric is already registered, like MustRegister.
func New(reg prometheus.Registerer) *Hooks {
	h := &Hooks{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total queries run, by algorithm and outcome",
		}, []string{"algorithm", "status"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Query latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}, []string{"algorithm"}),
		resultSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_result_size",
			Help:      "Result nodes per query, or matches per pattern search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"algorithm"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Total result renderings, by format and outcome",
		}, []string{"format", "status"}),
		renderTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Rendering latency in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "events_total",
			Help:      "Cache hits, misses and writes by key type",
		}, []string{"key_type", "event"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache by key type",
		}, []string{"key_type"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "HTTP requests currently being served",
		}),
	}
	reg.MustRegister(
		h.queries, h.queryDuration, h.resultSize, h.renders, h.renderTime,
		h.cacheEvents, h.cacheBytes,
		h.requests, h.requestDuration, h.inFlight,
	)
	return h
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnQueryStart implements observability.QueryHooks.
func (h *Hooks) OnQueryStart(context.Context, string, string) {}

// OnQueryComplete implements observability.QueryHooks.
func (h *Hooks) OnQueryComplete(_ context.Context, algorithm, _ string, resultSize int, d time.Duration, err error) {
	h.queries.WithLabelValues(algorithm, status(err)).Inc()
	h.queryDuration.WithLabelValues(algorithm).Observe(d.Seconds())
	if err == nil {
		h.resultSize.WithLabelValues(algorithm).Observe(float64(resultSize))
	}
}

// OnRenderStart implements observability.QueryHooks.
func (h *Hooks) OnRenderStart(context.Context, []string) {}

// OnRenderComplete implements observability.QueryHooks.
func (h *Hooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.renders.WithLabelValues(strings.Join(formats, ","), status(err)).Inc()
	h.renderTime.Observe(d.Seconds())
}

// OnCacheHit implements observability.CacheHooks.
func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheEvents.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// OnRequest implements observability.HTTPHooks.
func (h *Hooks) OnRequest(context.Context, string, string) {
	h.inFlight.Inc()
}

// OnResponse implements observability.HTTPHooks.
func (h *Hooks) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	h.inFlight.Dec()
	h.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	h.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.QueryHooks = (*Hooks)(nil)
	_ observability.CacheHooks = (*Hooks)(nil)
	_ observability.HTTPHooks  = (*Hooks)(nil)
)
