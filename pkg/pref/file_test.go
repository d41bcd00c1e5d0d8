package pref

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSurface(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	f := NewFileSurface(path)

	if _, ok, err := f.GetItem(ctx, "k"); ok || err != nil {
		t.Fatalf("GetItem() on missing file = %v, %v", ok, err)
	}

	if err := f.SetItem(ctx, "k", `"v"`); err != nil {
		t.Fatalf("SetItem() error = %v", err)
	}

	other := NewFileSurface(path)
	v, ok, err := other.GetItem(ctx, "k")
	if err != nil || !ok || v != `"v"` {
		t.Errorf("GetItem() from second surface = %q, %v, %v", v, ok, err)
	}

	if err := f.RemoveItem(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := other.GetItem(ctx, "k"); ok {
		t.Error("item still present after RemoveItem")
	}
	if err := f.RemoveItem(ctx, "missing"); err != nil {
		t.Errorf("RemoveItem(missing) error = %v", err)
	}
}

func TestFileSurfaceCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}

	store, rec := newTestStore(NewFileSurface(path))
	if got := Get(context.Background(), store, "k", "def"); got != "def" {
		t.Errorf("Get() = %q, want def", got)
	}
	if len(rec.Records()) != 1 {
		t.Errorf("records = %d, want 1", len(rec.Records()))
	}
}
