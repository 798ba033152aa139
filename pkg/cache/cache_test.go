package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.NetworkKey("file", "p53"); got != "network:file:p53" {
		t.Errorf("NetworkKey unexpected: %s", got)
	}

	// QueryKey should include options in hash
	qk1 := k.QueryKey("hash123", QueryKeyOpts{Algorithm: "neighborhood", Sources: []string{"TP53"}, Limit: 1})
	qk2 := k.QueryKey("hash123", QueryKeyOpts{Algorithm: "neighborhood", Sources: []string{"TP53"}, Limit: 2})
	if qk1 == qk2 {
		t.Error("Different QueryKeyOpts should produce different keys")
	}

	// Different networks never share results
	if k.QueryKey("hash456", QueryKeyOpts{Algorithm: "neighborhood", Sources: []string{"TP53"}, Limit: 1}) == qk1 {
		t.Error("Different network hashes should produce different keys")
	}

	// ArtifactKey
	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "dot"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}

	if got := k.ResultKey("abc"); got != "result:abc" {
		t.Errorf("ResultKey unexpected: %s", got)
	}
}

func TestQueryKeyOrderInsensitive(t *testing.T) {
	k := NewDefaultKeyer()
	a := k.QueryKey("h", QueryKeyOpts{Algorithm: "common", Sources: []string{"TP53", "MDM2"}, Exclude: []string{"ATP", "ADP"}})
	b := k.QueryKey("h", QueryKeyOpts{Algorithm: "common", Sources: []string{"MDM2", "TP53", "TP53"}, Exclude: []string{"ADP", "ATP"}})
	if a != b {
		t.Errorf("source and exclude order should not matter: %s != %s", a, b)
	}

	opts := QueryKeyOpts{Sources: []string{"B", "A"}}
	_ = k.QueryKey("h", opts)
	if opts.Sources[0] != "B" {
		t.Error("QueryKey must not reorder the caller's slice")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "mongo:")

	// All keys should be prefixed
	if got := scoped.NetworkKey("mongo", "p53"); got != "mongo:network:mongo:p53" {
		t.Errorf("ScopedKeyer NetworkKey unexpected: %s", got)
	}

	queryKey := scoped.QueryKey("hash", QueryKeyOpts{})
	if !strings.HasPrefix(queryKey, "mongo:query:") {
		t.Errorf("ScopedKeyer QueryKey should be prefixed: %s", queryKey)
	}
	if got := scoped.ResultKey("abc"); got != "mongo:result:abc" {
		t.Errorf("ScopedKeyer ResultKey unexpected: %s", got)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.NetworkKey("file", "key")
	if key != "prefix:network:file:key" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, "a", []byte("1"), 0); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "b", []byte("2"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if data, hit, _ := c.Get(ctx, "a"); !hit || string(data) != "1" {
		t.Errorf("Get(a) = %q, %v", data, hit)
	}

	// Expired entries are misses
	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry should be a miss")
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 2 {
		t.Errorf("Clear removed %d entries, want 2", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entries should be gone after Clear")
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("Clear should keep the cache directory: %v", err)
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	type entry struct{ Nodes []string }
	var got entry
	if err := GetJSON(ctx, c, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("GetJSON on empty cache = %v, want ErrCacheMiss", err)
	}

	n, err := SetJSON(ctx, c, "k", entry{Nodes: []string{"TP53"}}, time.Hour)
	if err != nil || n == 0 {
		t.Fatalf("SetJSON = %d, %v", n, err)
	}
	if err := GetJSON(ctx, c, "k", &got); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if len(got.Nodes) != 1 || got.Nodes[0] != "TP53" {
		t.Errorf("GetJSON decoded %+v", got)
	}

	// Corrupt entries are dropped and reported as misses
	if err := c.Set(ctx, "bad", []byte("{"), 0); err != nil {
		t.Fatal(err)
	}
	if err := GetJSON(ctx, c, "bad", &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("GetJSON on corrupt entry = %v, want ErrCacheMiss", err)
	}
	if _, hit, _ := c.Get(ctx, "bad"); hit {
		t.Error("corrupt entry should be deleted")
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) || !errors.Is(err, ErrUnavailable) {
		t.Error("Retryable should mark err and keep it in the chain")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error() = %q", err.Error())
	}
	if IsRetryable(ErrCacheMiss) {
		t.Error("unmarked errors are not retryable")
	}
}

func TestBackoffDo(t *testing.T) {
	b := Backoff{Attempts: 3, Delay: time.Millisecond}
	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"FirstTry", 0, nil, 1, nil},
		{"NotRetryable", 5, ErrCacheMiss, 1, ErrCacheMiss},
		{"RecoversAfterRetry", 1, Retryable(ErrUnavailable), 2, nil},
		{"GivesUp", 5, Retryable(ErrUnavailable), 3, ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := b.Do(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBackoffDoCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Backoff{Attempts: 3, Delay: time.Hour}.Do(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestFileCacheWritesAtomically(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []string{"first", "second"} {
		if err := c.Set(ctx, "result", []byte(v), TTLQuery); err != nil {
			t.Fatal(err)
		}
	}
	if data, hit, _ := c.Get(ctx, "result"); !hit || string(data) != "second" {
		t.Errorf("Get = %q, %v, want the overwritten value", data, hit)
	}
	entries, err := os.ReadDir(filepath.Dir(c.path("result")))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || strings.HasPrefix(entries[0].Name(), ".tmp-") {
		t.Errorf("entry dir holds %v, want a single entry file", entries)
	}

	// A truncated file is a miss and gets removed.
	path := c.path("torn")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"data":"dG`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "torn"); hit || err != nil {
		t.Errorf("Get(torn) = hit %v, err %v", hit, err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("torn entry should be removed, stat err = %v", err)
	}
}
