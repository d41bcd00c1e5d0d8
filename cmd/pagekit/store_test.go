package main

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/vango-dev/pagekit/internal/config"
	"github.com/vango-dev/pagekit/pkg/pref"
)

func fileStoreDir(t *testing.T) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "storage.json")
	writeConfig(t, dir, `{"storage":{"backend":"file","path":`+strconv.Quote(path)+`}}`)
	return dir, path
}

func TestStoreCommand(t *testing.T) {
	dir, path := fileStoreDir(t)

	if _, err := run(t, dir, "store", "set", "theme", `"dark"`); err != nil {
		t.Fatalf("store set error = %v", err)
	}
	if _, err := run(t, dir, "store", "set", "layout", `{"cols": 3}`); err != nil {
		t.Fatalf("store set error = %v", err)
	}

	out, err := run(t, dir, "store", "get", "theme")
	if err != nil {
		t.Fatalf("store get error = %v", err)
	}
	if out != "\"dark\"\n" {
		t.Errorf("store get theme = %q", out)
	}

	out, err = run(t, dir, "store", "get", "layout")
	if err != nil {
		t.Fatal(err)
	}
	if out != "{\"cols\":3}\n" {
		t.Errorf("store get layout = %q", out)
	}

	// The file is shared with the library surface.
	got := pref.Get(context.Background(), pref.NewStore(pref.NewFileSurface(path)), "theme", "")
	if got != "dark" {
		t.Errorf("FileSurface theme = %q, want dark", got)
	}

	if _, err := run(t, dir, "store", "rm", "theme"); err != nil {
		t.Fatalf("store rm error = %v", err)
	}
	_, err = run(t, dir, "store", "get", "theme")
	if err == nil || !strings.Contains(err.Error(), "E002") {
		t.Errorf("get after rm: error = %v, want E002", err)
	}
}

func TestStoreCommandInvalidJSON(t *testing.T) {
	dir, _ := fileStoreDir(t)
	_, err := run(t, dir, "store", "set", "theme", "dark")
	if err == nil || !strings.Contains(err.Error(), "E041") {
		t.Errorf("error = %v, want E041", err)
	}
}

func TestStoreCommandUnknownBackend(t *testing.T) {
	_, err := run(t, t.TempDir(), "store", "get", "x", "--backend", "sqlite")
	if err == nil || !strings.Contains(err.Error(), "E032") {
		t.Errorf("error = %v, want E032", err)
	}
}

func TestOpenSurface(t *testing.T) {
	ctx := context.Background()

	surface, closeFn, err := openSurface(ctx, config.StorageConfig{Backend: config.BackendMemory, QuotaBytes: 4})
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()
	if _, ok := surface.(*pref.MemorySurface); !ok {
		t.Errorf("memory backend = %T", surface)
	}
	if err := surface.SetItem(ctx, "k", "too long"); err == nil {
		t.Error("quota should reject the write")
	}

	_, _, err = openSurface(ctx, config.StorageConfig{Backend: config.BackendRedis, Redis: config.RedisConfig{Addr: "127.0.0.1:1"}})
	if err == nil || !strings.Contains(err.Error(), "E026") {
		t.Errorf("unreachable redis: error = %v, want E026", err)
	}
}
