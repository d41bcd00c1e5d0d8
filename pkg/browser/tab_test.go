package browser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/vango-dev/pagekit/internal/logging"
	"github.com/vango-dev/pagekit/pkg/dom"
	"github.com/vango-dev/pagekit/pkg/favorite"
	"github.com/vango-dev/pagekit/pkg/pref"
	"github.com/vango-dev/pagekit/pkg/urlparam"
)

func TestCall(t *testing.T) {
	got, err := call("f", "a'b", 1, map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	if want := `f("a'b",1,{})`; got != want {
		t.Errorf("call() = %s, want %s", got, want)
	}
}

func TestTabLocationFallback(t *testing.T) {
	rec, logger := logging.NewRecorder()
	// A plain context is not a chromedp context, so every evaluation fails.
	tab := Attach(context.Background(), WithLogger(logger))

	if got := tab.Location(); got != "/" {
		t.Errorf("Location() = %q, want /", got)
	}
	if rec.Count(slog.LevelWarn) != 1 {
		t.Errorf("warn records = %d, want 1", rec.Count(slog.LevelWarn))
	}

	tab.remember("/channels?search=test")
	if got := tab.Location(); got != "/channels?search=test" {
		t.Errorf("Location() = %q, want last known address", got)
	}

	// A failed read keeps the path and only loses what cannot be read.
	s := urlparam.NewSynchronizer(tab)
	if got := s.Href(); got != "/channels?search=test" {
		t.Errorf("Href() = %q", got)
	}
}

// Set PAGEKIT_TEST_CHROME=1 to run against a local Chrome install.
func newTestTab(t *testing.T) *Tab {
	t.Helper()
	if os.Getenv("PAGEKIT_TEST_CHROME") == "" {
		t.Skip("PAGEKIT_TEST_CHROME not set")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `<html><body>
			<button id="favorite-btn-123" class="btn"></button>
			<span id="star-icon-123"></span>
			<span id="x-icon-123" class="hidden"></span>
		</body></html>`)
	}))
	t.Cleanup(srv.Close)

	_, logger := logging.NewRecorder()
	tab, err := Launch(context.Background(), WithLogger(logger))
	if err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	t.Cleanup(tab.Close)

	if err := tab.Navigate(context.Background(), srv.URL+"/channels?search=test&category=sports"); err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}
	return tab
}

func TestTabAddress(t *testing.T) {
	tab := newTestTab(t)
	s := urlparam.NewSynchronizer(tab)

	if err := s.Set("language", "english", nil); err != nil {
		t.Fatal(err)
	}
	if got, want := tab.Location(), "/channels?search=test&category=sports&language=english"; got != want {
		t.Errorf("Location() = %q, want %q", got, want)
	}
	if err := s.SetMany([]urlparam.Pair{{Name: "search"}, {Name: "category"}, {Name: "language"}}, nil); err != nil {
		t.Fatal(err)
	}
	if got := tab.Location(); got != "/channels" {
		t.Errorf("Location() = %q, want /channels", got)
	}
}

func TestTabStorage(t *testing.T) {
	tab := newTestTab(t)
	ctx := context.Background()
	store := pref.NewStore(tab)

	if got := pref.Get(ctx, store, "theme", "light"); got != "light" {
		t.Errorf("Get() = %q, want light", got)
	}
	if !store.Set(ctx, "theme", "dark") {
		t.Fatal("Set() = false")
	}
	if got := pref.Get(ctx, store, "theme", "light"); got != "dark" {
		t.Errorf("Get() = %q, want dark", got)
	}
	if !store.Remove(ctx, "theme") {
		t.Fatal("Remove() = false")
	}
}

func TestTabDocument(t *testing.T) {
	tab := newTestTab(t)
	p := favorite.NewPresenter(dom.NewAccessor(tab), nil, favorite.Config{})

	p.SetState("123", true)
	if state, ok := p.State("123"); !state || !ok {
		t.Errorf("State() = %v, %v; want true, true", state, ok)
	}
	x, ok := tab.ElementByID("x-icon-123")
	if !ok || x.HasClass("hidden") {
		t.Error("x icon should be visible")
	}
	if _, ok := tab.ElementByID("missing"); ok {
		t.Error("missing element found")
	}
}
