package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/pagekit/pkg/dom"
)

const testPage = `<html><body>
<button id="favorite-btn-9"><span id="star-icon-9">*</span><span id="x-icon-9" class="hidden">x</span></button>
</body></html>`

func writePage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(testPage), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

type wantState struct {
	favorited, starHidden, xHidden bool
}

func checkPage(t *testing.T, html, entityID string, want wantState) {
	t.Helper()
	doc, err := dom.ParseHTMLString(html)
	if err != nil {
		t.Fatal(err)
	}
	has := func(id, class string) bool {
		el, ok := doc.ElementByID(id)
		if !ok {
			t.Fatalf("element %q missing", id)
		}
		return el.HasClass(class)
	}
	got := wantState{
		favorited:  has("favorite-btn-"+entityID, "favorited"),
		starHidden: has("star-icon-"+entityID, "hidden"),
		xHidden:    has("x-icon-"+entityID, "hidden"),
	}
	if got != want {
		t.Errorf("page state = %+v, want %+v", got, want)
	}
}

func TestFavoriteCommand(t *testing.T) {
	path := writePage(t)

	out, err := run(t, t.TempDir(), "favorite", path, "9")
	if err != nil {
		t.Fatalf("favorite error = %v", err)
	}
	if !strings.Contains(out, "9 is favorited") {
		t.Errorf("output = %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	checkPage(t, string(data), "9", wantState{favorited: true, starHidden: true, xHidden: false})

	out, err = run(t, t.TempDir(), "favorite", path, "9", "--off", "-o", "-")
	if err != nil {
		t.Fatal(err)
	}
	checkPage(t, out, "9", wantState{favorited: false, starHidden: false, xHidden: true})
}

func TestFavoriteCommandMissingElements(t *testing.T) {
	path := writePage(t)

	out, err := run(t, t.TempDir(), "favorite", path, "404", "-o", "-")
	if err != nil {
		t.Fatalf("favorite error = %v", err)
	}
	checkPage(t, out, "9", wantState{favorited: false, starHidden: false, xHidden: true})
}

func TestFavoriteCommandEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"favorited":true`) {
			t.Errorf("request body = %s, want favorited true", body)
		}
		io.WriteString(w, `{"favorited":true}`)
	}))
	defer srv.Close()

	path := writePage(t)
	out, err := run(t, t.TempDir(), "favorite", path, "9", "--endpoint", srv.URL, "-o", "-")
	if err != nil {
		t.Fatalf("favorite error = %v", err)
	}
	checkPage(t, out, "9", wantState{favorited: true, starHidden: true, xHidden: false})

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "not json")
	}))
	defer failing.Close()

	_, err = run(t, t.TempDir(), "favorite", path, "9", "--endpoint", failing.URL, "-o", "-")
	if err == nil || !strings.Contains(err.Error(), "E011") {
		t.Errorf("error = %v, want E011", err)
	}
}
