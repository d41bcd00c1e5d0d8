package urlparam

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/pagekit/pkg/protocol"
)

type filters struct {
	Category string `url:"cat"`
	SortBy   string `url:"sort"`
	Page     int
	Internal string `url:"-"`
}

func TestBindSimple(t *testing.T) {
	loc := NewMemoryLocation("/channels?search=test")
	s := NewSynchronizer(loc)

	t.Run("String", func(t *testing.T) {
		q := Bind(s, "search", "")
		if got := q.Get(); got != "test" {
			t.Errorf("Get() = %q, want %q", got, "test")
		}
		if err := q.Set("go lang"); err != nil {
			t.Fatal(err)
		}
		if got := loc.Location(); got != "/channels?search=go+lang" {
			t.Errorf("Location() = %q", got)
		}
		if err := q.Reset(); err != nil {
			t.Fatal(err)
		}
		if got := loc.Location(); got != "/channels" {
			t.Errorf("Location() after Reset = %q, want /channels", got)
		}
	})

	t.Run("IntWithDefault", func(t *testing.T) {
		page := Bind(s, "page", 1)
		if got := page.Get(); got != 1 {
			t.Errorf("Get() = %d, want default 1", got)
		}
		if err := page.Set(3); err != nil {
			t.Fatal(err)
		}
		if got := page.Get(); got != 3 {
			t.Errorf("Get() = %d, want 3", got)
		}
		if err := page.Set(1); err != nil {
			t.Fatal(err)
		}
		if s.Current().Has("page") {
			t.Error("setting the default should remove the parameter")
		}
	})

	t.Run("UndecodableFallsBack", func(t *testing.T) {
		loc := NewMemoryLocation("/?page=abc")
		page := Bind(NewSynchronizer(loc), "page", 7)
		if got := page.Get(); got != 7 {
			t.Errorf("Get() = %d, want 7", got)
		}
	})
}

func TestBindFlatStruct(t *testing.T) {
	loc := NewMemoryLocation("/list?q=x")
	s := NewSynchronizer(loc)
	f := Bind(s, "", filters{})

	if err := f.Set(filters{Category: "tech", Page: 2, Internal: "secret"}); err != nil {
		t.Fatal(err)
	}
	if got, want := loc.Location(), "/list?q=x&cat=tech&page=2"; got != want {
		t.Errorf("Location() = %q, want %q", got, want)
	}

	got := f.Get()
	want := filters{Category: "tech", Page: 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}

	if err := f.Set(filters{SortBy: "asc"}); err != nil {
		t.Fatal(err)
	}
	if got, want := loc.Location(), "/list?q=x&sort=asc"; got != want {
		t.Errorf("Location() = %q, want %q", got, want)
	}
}

func TestBindJSON(t *testing.T) {
	loc := NewMemoryLocation("/")
	f := Bind(NewSynchronizer(loc), "filter", filters{}, WithEncoding(EncodingJSON))

	v := filters{Category: "tech", SortBy: "desc"}
	if err := f.Set(v); err != nil {
		t.Fatal(err)
	}
	if got := f.Get(); !cmp.Equal(got, v) {
		t.Errorf("Get() = %+v, want %+v", got, v)
	}

	loc.Navigate("/?filter=!!!")
	if got := f.Get(); !cmp.Equal(got, filters{}) {
		t.Errorf("Get() on bad base64 = %+v, want default", got)
	}
}

func TestBindComma(t *testing.T) {
	loc := NewMemoryLocation("/?tags=go,web")
	tags := Bind(NewSynchronizer(loc), "tags", []string(nil), WithEncoding(EncodingComma))

	if got, want := tags.Get(), []string{"go", "web"}; !cmp.Equal(got, want) {
		t.Errorf("Get() = %v, want %v", got, want)
	}
	if err := tags.Set([]string{"go", "api"}); err != nil {
		t.Fatal(err)
	}
	if got, want := loc.Location(), "/?tags=go%2Capi"; got != want {
		t.Errorf("Location() = %q, want %q", got, want)
	}
	if err := tags.Set(nil); err != nil {
		t.Fatal(err)
	}
	if got := loc.Location(); got != "/" {
		t.Errorf("Location() = %q, want /", got)
	}

	ids := Bind(NewSynchronizer(NewMemoryLocation("/?ids=1,x")), "ids", []int(nil), WithEncoding(EncodingComma))
	if got := ids.Get(); got != nil {
		t.Errorf("Get() = %v, want nil default", got)
	}
}

func TestBindDebounce(t *testing.T) {
	loc := NewMemoryLocation("/search")
	q := Bind(NewSynchronizer(loc), "q", "", Debounce(time.Hour))

	for _, v := range []string{"g", "go", "gol", "gola"} {
		if err := q.Set(v); err != nil {
			t.Fatal(err)
		}
	}
	if len(loc.Entries()) != 0 {
		t.Fatalf("commits before flush = %d, want 0", len(loc.Entries()))
	}

	if err := q.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := loc.Entries(); len(got) != 1 || got[0].URL != "/search?q=gola" {
		t.Errorf("Entries() = %+v, want one commit of /search?q=gola", got)
	}
	if err := q.Flush(); err != nil {
		t.Errorf("second Flush() = %v, want nil", err)
	}
	if len(loc.Entries()) != 1 {
		t.Errorf("second Flush() committed again")
	}
}

func TestBindDebounceFires(t *testing.T) {
	loc := NewMemoryLocation("/search")
	done := make(chan string, 1)
	q := Bind(NewSynchronizer(loc), "q", "", Debounce(10*time.Millisecond)).
		WithCommitter(func(_ map[string]any, _ string, url string) error {
			done <- url
			return nil
		})

	if err := q.Set("go"); err != nil {
		t.Fatal(err)
	}
	select {
	case url := <-done:
		if url != "/search?q=go" {
			t.Errorf("committed %q, want /search?q=go", url)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("debounced commit never fired")
	}
}

func TestBindCommitterError(t *testing.T) {
	boom := errors.New("boom")
	q := Bind(NewSynchronizer(NewMemoryLocation("/")), "q", "").
		WithCommitter(func(map[string]any, string, string) error { return boom })
	if err := q.Set("x"); !errors.Is(err, boom) {
		t.Errorf("Set() error = %v, want %v", err, boom)
	}
}

func TestPatchCommitter(t *testing.T) {
	var queued []protocol.Patch
	commit := NewPatchCommitter(func(p protocol.Patch) { queued = append(queued, p) })

	loc := NewMemoryLocation(channels)
	if err := NewSynchronizer(loc).Set("language", "english", commit); err != nil {
		t.Fatal(err)
	}

	want := []protocol.Patch{protocol.NewURLReplacePatch(
		"/channels?search=test&category=sports&language=english",
		[]protocol.Param{
			{Key: "search", Value: "test"},
			{Key: "category", Value: "sports"},
			{Key: "language", Value: "english"},
		},
	)}
	if diff := cmp.Diff(want, queued); diff != "" {
		t.Errorf("queued patches mismatch (-want +got):\n%s", diff)
	}
	if loc.Location() != channels {
		t.Error("patch committer should not touch the local address")
	}

	if err := NewPatchCommitter(nil)(nil, "", "/x"); err != nil {
		t.Errorf("nil queue commit error = %v", err)
	}
}
