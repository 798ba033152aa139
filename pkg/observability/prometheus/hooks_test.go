package prometheus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// counter sums every series of the named counter whose labels include want.
func counter(t *testing.T, reg *prometheus.Registry, name string, want map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	total := 0.0
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	series:
		for _, m := range mf.GetMetric() {
			labels := make(map[string]string)
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue series
				}
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestQueryMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg)
	ctx := context.Background()

	h.OnQueryStart(ctx, "neighborhood", "p53")
	h.OnQueryComplete(ctx, "neighborhood", "p53", 12, 5*time.Millisecond, nil)
	h.OnQueryComplete(ctx, "neighborhood", "p53", 0, time.Millisecond, errors.New("boom"))
	h.OnQueryComplete(ctx, "search", "p53", 3, time.Millisecond, nil)

	tests := []struct {
		labels map[string]string
		want   float64
	}{
		{map[string]string{"algorithm": "neighborhood", "status": "ok"}, 1},
		{map[string]string{"algorithm": "neighborhood", "status": "error"}, 1},
		{map[string]string{"algorithm": "search"}, 1},
		{nil, 3},
	}
	for _, tt := range tests {
		if got := counter(t, reg, "pathquery_queries_total", tt.labels); got != tt.want {
			t.Errorf("queries_total%v = %v, want %v", tt.labels, got, tt.want)
		}
	}
}

func TestCacheMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg)
	ctx := context.Background()

	h.OnCacheMiss(ctx, "query")
	h.OnCacheSet(ctx, "query", 100)
	h.OnCacheHit(ctx, "query")
	h.OnCacheHit(ctx, "network")

	if got := counter(t, reg, "pathquery_cache_events_total", map[string]string{"event": "hit"}); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := counter(t, reg, "pathquery_cache_written_bytes_total", map[string]string{"key_type": "query"}); got != 100 {
		t.Errorf("written bytes = %v, want 100", got)
	}
}

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg)
	ctx := context.Background()

	route := "/v1/networks/{name}/paths"
	h.OnRequest(ctx, "POST", route)
	h.OnResponse(ctx, "POST", route, 200, time.Millisecond)
	h.OnRequest(ctx, "POST", route)
	h.OnResponse(ctx, "POST", route, 400, time.Millisecond)

	if got := counter(t, reg, "pathquery_http_requests_total", map[string]string{"route": route, "code": "200"}); got != 1 {
		t.Errorf("200 responses = %v, want 1", got)
	}
	if got := counter(t, reg, "pathquery_http_requests_total", nil); got != 2 {
		t.Errorf("all responses = %v, want 2", got)
	}
}

func TestDoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	defer func() {
		if recover() == nil {
			t.Error("registering twice should panic")
		}
	}()
	New(reg)
}
