package cache

import (
	"context"
	"os"
	"path/filepath"
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

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Fatal("empty cache should miss")
	}
	if err := c.Set(ctx, "k", []byte("value"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "value" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte{0xc1}, 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry Get = %v, %v; want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Get after Clear should miss")
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after Clear", len(entries))
	}
}

type snapshot struct {
	Name  string
	Sizes []int
}

func TestValueRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	in := snapshot{Name: "ibm01", Sizes: []int{4, 8, 12}}
	if n, err := SetValue(ctx, c, "snap", in, time.Hour); err != nil || n == 0 {
		t.Fatalf("SetValue = %d, %v", n, err)
	}
	out, hit, err := GetValue[snapshot](ctx, c, "snap")
	if err != nil || !hit {
		t.Fatalf("GetValue = %v, %v", hit, err)
	}
	if out.Name != in.Name || len(out.Sizes) != 3 || out.Sizes[2] != 12 {
		t.Errorf("GetValue = %+v, want %+v", out, in)
	}

	if err := c.Set(ctx, "bad", []byte{0xc1}, 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := GetValue[snapshot](ctx, c, "bad"); hit || err != nil {
		t.Errorf("undecodable value = %v, %v; want miss", hit, err)
	}
	if _, hit, _ := c.Get(ctx, "bad"); hit {
		t.Error("undecodable value should be deleted")
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

func TestHashFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return p
	}
	a := write("a.nodes", "ab")
	b := write("a.nets", "c")

	h1, err := HashFiles(a, b)
	if err != nil {
		t.Fatalf("HashFiles error: %v", err)
	}
	if h2, _ := HashFiles(a, b); h1 != h2 {
		t.Error("HashFiles should be deterministic")
	}

	write("a.nodes", "a")
	write("a.nets", "bc")
	if h3, _ := HashFiles(a, b); h3 == h1 {
		t.Error("moving bytes between files should change the hash")
	}

	if _, err := HashFiles(filepath.Join(dir, "missing")); err == nil {
		t.Error("HashFiles of missing file should fail")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	dk1 := k.DesignKey("abc", DesignKeyOpts{RowHeight: 12, SiteWidth: 1})
	dk2 := k.DesignKey("abc", DesignKeyOpts{RowHeight: 16, SiteWidth: 1})
	if dk1 == dk2 {
		t.Error("Different DesignKeyOpts should produce different keys")
	}
	if dk1 != k.DesignKey("abc", DesignKeyOpts{RowHeight: 12, SiteWidth: 1}) {
		t.Error("DesignKey should be deterministic")
	}
	if dk1[:7] != "design:" {
		t.Errorf("DesignKey prefix unexpected: %s", dk1)
	}

	ak1 := k.ArtifactKey(dk1, ArtifactKeyOpts{Format: "lef"})
	ak2 := k.ArtifactKey(dk1, ArtifactKeyOpts{Format: "def"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "shelfconv:v1:")

	want := "shelfconv:v1:" + inner.DesignKey("h", DesignKeyOpts{})
	if got := scoped.DesignKey("h", DesignKeyOpts{}); got != want {
		t.Errorf("ScopedKeyer DesignKey = %s, want %s", got, want)
	}

	artifactKey := scoped.ArtifactKey("d", ArtifactKeyOpts{Format: "svg"})
	if len(artifactKey) < 15 || artifactKey[:13] != "shelfconv:v1:" {
		t.Errorf("ScopedKeyer ArtifactKey should be prefixed: %s", artifactKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.DesignKey("h", DesignKeyOpts{})
	if key != "prefix:"+NewDefaultKeyer().DesignKey("h", DesignKeyOpts{}) {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
