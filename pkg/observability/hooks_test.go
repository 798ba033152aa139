package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

type testQueryHooks struct{ NoopQueryHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

// allHooks implements every hook interface.
type allHooks struct {
	NoopQueryHooks
	NoopCacheHooks
	NoopHTTPHooks
}

func TestNoopHooks(t *testing.T) {
	ctx := context.Background()
	NoopQueryHooks{}.OnQueryComplete(ctx, "neighborhood", "p53", 12, time.Second, nil)
	NoopQueryHooks{}.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)
	NoopCacheHooks{}.OnCacheSet(ctx, "artifact", 1024)
	NoopHTTPHooks{}.OnResponse(ctx, "POST", "/v1/networks/{name}/query", 200, time.Second)
}

func TestSetters(t *testing.T) {
	t.Cleanup(Reset)
	Reset()
	if _, ok := Query().(NoopQueryHooks); !ok {
		t.Errorf("Query() = %T, want NoopQueryHooks", Query())
	}

	q, c, h := &testQueryHooks{}, &testCacheHooks{}, &testHTTPHooks{}
	SetQueryHooks(q)
	SetCacheHooks(c)
	SetHTTPHooks(h)
	if Query() != q || Cache() != c || HTTP() != h {
		t.Error("setters should install the given hooks")
	}

	SetQueryHooks(nil)
	if Query() != q {
		t.Error("SetQueryHooks(nil) should be ignored")
	}

	Reset()
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want int
	}{
		{"All", &allHooks{}, 3},
		{"CacheOnly", &testCacheHooks{}, 1},
		{"None", "not hooks", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(Reset)
			Reset()
			if got := Register(tt.v); got != tt.want {
				t.Errorf("Register() = %d, want %d", got, tt.want)
			}
		})
	}

	t.Cleanup(Reset)
	a := &allHooks{}
	Register(a)
	if Query() != a || Cache() != a || HTTP() != a {
		t.Error("Register should install v for every interface")
	}
}

func TestConcurrentSetters(t *testing.T) {
	t.Cleanup(Reset)
	Reset()
	q, c := &testQueryHooks{}, &testCacheHooks{}
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() { defer wg.Done(); SetQueryHooks(q) }()
		go func() { defer wg.Done(); SetCacheHooks(c) }()
	}
	wg.Wait()
	if Query() != q || Cache() != c {
		t.Error("concurrent setters should not lose updates")
	}
}
