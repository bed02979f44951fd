package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"stripgen/internal/normalize"
	"stripgen/internal/project"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := project.DigestBytes([]byte("input"))
	if _, ok, err := cache.Get(key); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	entry, err := newCacheEntry(uint8(normalize.OutcomeRewritten), normalize.SunJAXB, []byte("output"))
	if err != nil {
		t.Fatal(err)
	}
	if err := cache.Put(key, entry); err != nil {
		t.Fatal(err)
	}
	got, ok, err := cache.Get(key)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Signature != normalize.SunJAXB || got.OutputSize != 6 || got.OutputHash != project.DigestBytes([]byte("output")) {
		t.Fatalf("unexpected entry %+v", got)
	}

	if err := cache.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := cache.Get(key); ok {
		t.Fatal("entry survived Clear")
	}
}

func TestDiskCacheNilIsDisabled(t *testing.T) {
	var cache *DiskCache
	if err := cache.Put(project.Digest{}, &CacheEntry{}); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := cache.Get(project.Digest{}); ok || err != nil {
		t.Fatalf("nil cache must miss, got ok=%v err=%v", ok, err)
	}
}

func TestDiskCacheCorruptEntry(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := project.DigestBytes([]byte("x"))
	p := cache.pathFor(key)
	writeFile(t, p, "not msgpack \xc1")
	if _, ok, err := cache.Get(key); ok || err == nil {
		t.Fatalf("expected decode error, got ok=%v err=%v", ok, err)
	}
}

func TestCacheDirHonorsXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)
	dir, err := CacheDir("stripgen")
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join(base, "stripgen") {
		t.Fatalf("unexpected cache dir %q", dir)
	}
}

func TestStripPathsCacheHit(t *testing.T) {
	root := sourceTree(t)
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := builtinOptions()
	opts.Cache = cache
	opts.OutDir = filepath.Join(t.TempDir(), "out")

	first, err := StripPaths(context.Background(), []string{root}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if Summarize(first).Cached != 0 {
		t.Fatal("first run cannot hit the cache")
	}

	second, err := StripPaths(context.Background(), []string{root}, opts)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range second {
		if !r.Cached || r.Changed {
			t.Fatalf("expected cached result, got %+v", r)
		}
	}
	if second[0].Signature != normalize.SunJAXB || second[0].Outcome != normalize.OutcomeRewritten {
		t.Fatalf("cached result lost its outcome: %+v", second[0])
	}

	// a modified output invalidates the hit
	fixed := filepath.Join(opts.OutDir, "a", "ObjectFactory.java")
	if err := os.WriteFile(fixed, []byte("tampered"), 0o644); err != nil {
		t.Fatal(err)
	}
	third, err := StripPaths(context.Background(), []string{root}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third[0].Cached || !third[0].Changed {
		t.Fatalf("tampered output must be rewritten, got %+v", third[0])
	}
	if got := readFile(t, fixed); got != xjcFactoryFixed {
		t.Fatalf("output not restored:\n%s", got)
	}
}
