package cache

import (
	"testing"
	"time"
)

func newTestCache(t *testing.T, maxSize int64, maxAge time.Duration) *Cache {
	t.Helper()
	c, err := New(Config{Dir: t.TempDir(), MaxSize: maxSize, MaxAge: maxAge})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return c
}

func TestCache_PutGet(t *testing.T) {
	c := newTestCache(t, 1<<20, time.Hour)

	key := Key("build/artifacts/list.ui.json", []byte("artifact"))
	data := []byte(`{"templates":[]}`)

	if _, ok := c.Get(key); ok {
		t.Error("Get() hit before Put()")
	}

	if err := c.Put(key, data); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("Get() missed after Put()")
	}
	if string(got) != string(data) {
		t.Errorf("Get() = %q, want %q", got, data)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCache_PutSameBytesTwice(t *testing.T) {
	c := newTestCache(t, 1<<20, time.Hour)

	data := []byte("descriptors")
	if err := c.Put("k", data); err != nil {
		t.Fatalf("first Put() failed: %v", err)
	}
	if err := c.Put("k", data); err != nil {
		t.Fatalf("second Put() failed: %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCache_Delete(t *testing.T) {
	c := newTestCache(t, 1<<20, time.Hour)

	if err := c.Put("k", []byte("v")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("Get() hit after Delete()")
	}
	if err := c.Delete("missing"); err != nil {
		t.Errorf("Delete() of a missing key failed: %v", err)
	}
}

func TestCache_Clear(t *testing.T) {
	c := newTestCache(t, 1<<20, time.Hour)

	c.Put("a", []byte("1"))
	c.Put("b", []byte("2"))

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear(), want 0", c.Len())
	}
}

func TestCache_EvictsWhenFull(t *testing.T) {
	c := newTestCache(t, 16, time.Hour)

	if err := c.Put("old", []byte("0123456789")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := c.Put("new", []byte("0123456789")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	if _, ok := c.Get("old"); ok {
		t.Error("least-recently-used entry survived eviction")
	}
	if _, ok := c.Get("new"); !ok {
		t.Error("newest entry was evicted")
	}
}

func TestCache_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	first, err := New(Config{Dir: dir, MaxSize: 1 << 20, MaxAge: time.Hour})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := first.Put("k", []byte("persisted")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	second, err := New(Config{Dir: dir, MaxSize: 1 << 20, MaxAge: time.Hour})
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	got, ok := second.Get("k")
	if !ok {
		t.Fatal("entry lost across reopen")
	}
	if string(got) != "persisted" {
		t.Errorf("Get() = %q, want %q", got, "persisted")
	}
}

func TestKey_ContentSensitive(t *testing.T) {
	a := Key("list.ui.json", []byte("one"))
	b := Key("list.ui.json", []byte("two"))
	c := Key("other.ui.json", []byte("one"))

	if a == b {
		t.Error("key ignores content changes")
	}
	if a == c {
		t.Error("key ignores path changes")
	}
	if a != Key("list.ui.json", []byte("one")) {
		t.Error("key is not deterministic")
	}
}
