package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
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

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Fatal("empty cache reported a hit")
	}

	value := []byte("value")
	if err := c.Set(ctx, "k", value, 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	value[0] = 'X'

	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v", hit, err)
	}
	if string(data) != "value" {
		t.Errorf("Get = %q, stored value should be a copy", data)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("hit after Delete")
	}
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete missing key: %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "short", []byte("a"), time.Minute)
	_ = c.Set(ctx, "forever", []byte("b"), 0)

	now = now.Add(30 * time.Second)
	if _, hit, _ := c.Get(ctx, "short"); !hit {
		t.Error("entry expired early")
	}

	now = now.Add(time.Minute)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry returned")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl expired")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, expired entry should be evicted", c.Len())
	}

	_ = c.Close()
	if c.Len() != 0 {
		t.Error("Close should drop entries")
	}
}

func TestMemoryCacheConcurrent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := string(rune('a' + i))
			for range 100 {
				_ = c.Set(ctx, key, []byte(key), time.Minute)
				_, _, _ = c.Get(ctx, key)
			}
		}()
	}
	wg.Wait()

	if c.Len() != 8 {
		t.Errorf("Len = %d, want 8", c.Len())
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	fk1 := k.ForestKey("hash", ForestKeyOpts{Grouping: "plain"})
	fk2 := k.ForestKey("hash", ForestKeyOpts{Grouping: "stage"})
	if fk1 == fk2 {
		t.Error("Different ForestKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(fk1, "forest:") {
		t.Errorf("ForestKey unexpected: %s", fk1)
	}
	if fk1 != k.ForestKey("hash", ForestKeyOpts{Grouping: "plain"}) {
		t.Error("ForestKey should be deterministic")
	}

	vk1 := k.ViewKey("hash", ViewKeyOpts{Cap: 8, Focus: "goal:g"})
	vk2 := k.ViewKey("hash", ViewKeyOpts{Cap: 8, Focus: "goal:h"})
	if vk1 == vk2 {
		t.Error("Different ViewKeyOpts should produce different keys")
	}

	ak1 := k.ArtifactKey("hash", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("hash", ArtifactKeyOpts{Format: "dot"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
	if ak1 == k.ArtifactKey("other", ArtifactKeyOpts{Format: "svg"}) {
		t.Error("Different view hashes should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "doc:a:")

	fk := scoped.ForestKey("hash", ForestKeyOpts{})
	if fk != "doc:a:"+NewDefaultKeyer().ForestKey("hash", ForestKeyOpts{}) {
		t.Errorf("ScopedKeyer ForestKey should be prefixed: %s", fk)
	}
	if !strings.HasPrefix(scoped.ViewKey("hash", ViewKeyOpts{}), "doc:a:view:") {
		t.Error("ScopedKeyer ViewKey should be prefixed")
	}
	if !strings.HasPrefix(scoped.ArtifactKey("hash", ArtifactKeyOpts{}), "doc:a:artifact:") {
		t.Error("ScopedKeyer ArtifactKey should be prefixed")
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if key := scoped.ViewKey("h", ViewKeyOpts{}); !strings.HasPrefix(key, "prefix:view:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	if c.Dir() != dir {
		t.Errorf("Dir = %s, want %s", c.Dir(), dir)
	}

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Fatalf("empty cache Get = %v, %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// a second instance over the same directory sees the entry
	c2, _ := NewFileCache(dir)
	data, hit, err := c2.Get(ctx, "k")
	if err != nil || !hit || string(data) != "value" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("hit after Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete missing key: %v", err)
	}
}

func TestFileCacheExpiryAndPrune(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "short", []byte("a"), time.Minute)
	_ = c.Set(ctx, "other", []byte("b"), time.Minute)
	_ = c.Set(ctx, "forever", []byte("c"), 0)

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("short")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed on Get")
	}

	removed, err := c.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Errorf("Prune removed %d, want 1", removed)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl pruned")
	}

	cleared, err := c.Clear(ctx)
	if err != nil || cleared != 1 {
		t.Errorf("Clear = %d, %v, want 1", cleared, err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); hit {
		t.Error("hit after Clear")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry Get = %v, %v, want miss", hit, err)
	}
}

func TestDocumentScope(t *testing.T) {
	k := NewScopedKeyer(nil, DocumentScope("roadmap.json"))
	if got := k.ForestKey("h", ForestKeyOpts{}); !strings.HasPrefix(got, "doc:roadmap.json:forest:") {
		t.Errorf("ForestKey = %s", got)
	}
}
