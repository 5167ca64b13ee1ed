package cache

import (
	"context"
	"testing"
	"time"
)

func testRoundTrip(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "k", []byte("svg bytes"), time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	data, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get(k) = ok=%v err=%v", ok, err)
	}
	if string(data) != "svg bytes" {
		t.Errorf("Get(k) = %q", data)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Get(k) after Delete should miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("double Delete() error: %v", err)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	defer c.Close()
	testRoundTrip(t, c)
}

func TestFileCacheExpiration(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("x"), -time.Second); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	// Negative ttl means no expiration in the entry, so this stays.
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Error("entry without expiration should persist")
	}

	if err := c.Set(ctx, "exp", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "exp"); ok {
		t.Error("expired entry should miss")
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c, err := NewMemoryCache(16)
	if err != nil {
		t.Fatalf("NewMemoryCache() error: %v", err)
	}
	defer c.Close()
	testRoundTrip(t, c)
}

func TestMemoryCacheEviction(t *testing.T) {
	c, err := NewMemoryCache(2)
	if err != nil {
		t.Fatalf("NewMemoryCache() error: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	_ = c.Set(ctx, "c", []byte("3"), 0)

	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok, _ := c.Get(ctx, "c"); !ok {
		t.Error("newest entry should be present")
	}
}

func TestNullCacheNeverStores(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("x"), time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("NullCache should never hit")
	}
}

func TestArtifactKeyDeterministic(t *testing.T) {
	k := NewDefaultKeyer()
	opts := ArtifactKeyOpts{Format: "svg", Detailed: true}

	a := k.ArtifactKey("hash1", opts)
	b := k.ArtifactKey("hash1", opts)
	if a != b {
		t.Error("identical inputs must produce identical keys")
	}
	if a == k.ArtifactKey("hash2", opts) {
		t.Error("different hashes must produce different keys")
	}
	if a == k.ArtifactKey("hash1", ArtifactKeyOpts{Format: "dot"}) {
		t.Error("different options must produce different keys")
	}
}

func TestScopedKeyerPrefix(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant:42:")
	opts := ArtifactKeyOpts{Format: "svg"}

	got := scoped.ArtifactKey("h", opts)
	want := "tenant:42:" + inner.ArtifactKey("h", opts)
	if got != want {
		t.Errorf("ArtifactKey() = %q, want %q", got, want)
	}
}
