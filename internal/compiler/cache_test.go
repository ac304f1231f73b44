package compiler

import "testing"

func TestCacheVariantsAreIndependent(t *testing.T) {
	c := NewCache()
	c.Put(Key{Filename: "a.js", Variant: VariantExecution}, "exec-a")

	if _, ok := c.Get(Key{Filename: "a.js", Variant: VariantPreview}); ok {
		t.Fatal("execution entry must not be visible through the preview variant")
	}
	code, ok := c.Get(Key{Filename: "a.js", Variant: VariantExecution})
	if !ok || code != "exec-a" {
		t.Fatalf("unexpected execution entry: %q (ok=%v)", code, ok)
	}
}

func TestCachePutOverwrites(t *testing.T) {
	c := NewCache()
	key := Key{Filename: "a.js", Variant: VariantExecution}
	c.Put(key, "old")
	c.Put(key, "new")

	code, _ := c.Get(key)
	if code != "new" {
		t.Fatalf("expected last write to win, got %q", code)
	}
}

func TestCacheHasAll(t *testing.T) {
	c := NewCache()
	c.Put(Key{Filename: "a.js", Variant: VariantExecution}, "a")

	files := []string{"a.js", "b.js"}
	if c.HasAll(files, VariantExecution) {
		t.Fatal("HasAll must be false while b.js is missing")
	}
	c.Put(Key{Filename: "b.js", Variant: VariantExecution}, "b")
	if !c.HasAll(files, VariantExecution) {
		t.Fatal("HasAll must be true once every file is present")
	}
}

func TestCacheSnapshotExactSet(t *testing.T) {
	c := NewCache()
	c.Put(Key{Filename: "a.js", Variant: VariantExecution}, "a")
	c.Put(Key{Filename: "removed.js", Variant: VariantExecution}, "stale")

	snap, ok := c.Snapshot([]string{"a.js"}, VariantExecution)
	if !ok {
		t.Fatal("snapshot must succeed for a fully cached set")
	}
	if len(snap) != 1 {
		t.Fatalf("snapshot must hold exactly the requested set, got %v", snap)
	}
	if _, leaked := snap["removed.js"]; leaked {
		t.Fatal("stale key from a removed file leaked into the snapshot")
	}

	if _, ok := c.Snapshot([]string{"a.js", "missing.js"}, VariantExecution); ok {
		t.Fatal("snapshot must fail when a file is missing")
	}
}
