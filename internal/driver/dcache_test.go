package driver

import (
	"context"
	"os"
	"reflect"
	"testing"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	job := Job{
		Instance: writeFile(t, dir, "a.in", path4),
		Solution: writeFile(t, dir, "a.out", "s 1\n2\n"),
	}
	opts := Options{Cache: cache}

	first, err := CheckWithOptions(context.Background(), job, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached {
		t.Fatalf("empty cache hit")
	}

	second, err := CheckWithOptions(context.Background(), job, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Fatalf("second run missed the cache")
	}
	if second.Verdict.OK != first.Verdict.OK || !reflect.DeepEqual(second.Verdict.Codes(), first.Verdict.Codes()) {
		t.Fatalf("cached verdict %+v, fresh %+v", second.Verdict, first.Verdict)
	}
	for i, d := range second.Verdict.Diagnostics {
		want := first.Verdict.Diagnostics[i]
		if d.Message != want.Message || d.Primary.Line != want.Primary.Line {
			t.Fatalf("diagnostic %d: %+v, want %+v", i, d, want)
		}
		// spans resolve to the same input file
		got := second.Files.Get(d.Primary.File).Path
		exp := first.Files.Get(want.Primary.File).Path
		if got != exp {
			t.Fatalf("diagnostic %d points at %s, want %s", i, got, exp)
		}
	}
	if second.SolutionDigest != first.SolutionDigest || !reflect.DeepEqual(second.Stages, first.Stages) {
		t.Fatalf("cached outcome differs")
	}

	// a changed solution is a new key
	if err := os.WriteFile(job.Solution, []byte("2\n3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	third, err := CheckWithOptions(context.Background(), job, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Cached || !third.Verdict.OK {
		t.Fatalf("edited solution: cached=%v ok=%v", third.Cached, third.Verdict.OK)
	}
}

func TestDiskCacheBypass(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	job := Job{Instance: writeFile(t, dir, "a.in", path4)}

	for _, opts := range []Options{
		{Cache: cache, Timings: true},
		{Cache: nil},
	} {
		for range 2 {
			res, err := CheckWithOptions(context.Background(), job, opts)
			if err != nil {
				t.Fatal(err)
			}
			if res.Cached {
				t.Fatalf("options %+v used the cache", opts)
			}
		}
	}
}

func TestDiskCacheKeyOptions(t *testing.T) {
	dir := t.TempDir()
	job := Job{Instance: writeFile(t, dir, "a.in", path4)}
	plain, err := cacheKey(Options{}, job)
	if err != nil {
		t.Fatal(err)
	}
	paranoid, err := cacheKey(Options{Paranoid: true}, job)
	if err != nil {
		t.Fatal(err)
	}
	again, err := cacheKey(Options{}, job)
	if err != nil {
		t.Fatal(err)
	}
	if plain == paranoid || plain != again {
		t.Fatalf("keys: %s %s %s", plain, paranoid, again)
	}
	if _, err := cacheKey(Options{}, Job{Instance: dir + "/missing.in"}); err == nil {
		t.Fatalf("missing file hashed")
	}
}

func TestDiskCacheDropAll(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := CacheKey{1, 2, 3}
	if err := cache.Put(key, &CachePayload{Schema: cacheSchemaVersion, OK: true}); err != nil {
		t.Fatal(err)
	}
	var p CachePayload
	if hit, err := cache.Get(key, &p); err != nil || !hit || !p.OK {
		t.Fatalf("get: hit=%v err=%v payload=%+v", hit, err, p)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if hit, err := cache.Get(key, &p); err != nil || hit {
		t.Fatalf("after drop: hit=%v err=%v", hit, err)
	}
}
