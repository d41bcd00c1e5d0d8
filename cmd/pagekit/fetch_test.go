package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func startAPI(t *testing.T) string {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"`+chi.URLParam(r, "id")+`","auth":"`+r.Header.Get("Authorization")+`"}`)
	})
	r.Get("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})
	r.Get("/broken", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>")
	})
	r.Post("/echo", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		io.Copy(w, r.Body)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestFetchGet(t *testing.T) {
	base := startAPI(t)
	dir := t.TempDir()
	writeConfig(t, dir, `{"http":{"baseURL":`+strconv.Quote(base)+`}}`)

	out, err := run(t, dir, "fetch", "get", "/items/7", "-H", "Authorization: Bearer t")
	if err != nil {
		t.Fatalf("fetch get error = %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %q", out)
	}
	if got["id"] != "7" || got["auth"] != "Bearer t" {
		t.Errorf("response = %v", got)
	}
}

func TestFetchGetErrors(t *testing.T) {
	base := startAPI(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"status", []string{"fetch", "get", base + "/missing"}, "HTTP error! status: 404"},
		{"status code", []string{"fetch", "get", base + "/missing"}, "E021"},
		{"not json", []string{"fetch", "get", base + "/broken"}, "E011"},
		{"unreachable", []string{"fetch", "get", "http://127.0.0.1:1/x"}, "E020"},
		{"bad header", []string{"fetch", "get", base + "/items/1", "-H", "nocolon"}, "E040"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, t.TempDir(), tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestFetchPost(t *testing.T) {
	base := startAPI(t)

	out, err := run(t, t.TempDir(), "fetch", "post", base+"/echo", `{"id":"1","favorited":true}`)
	if err != nil {
		t.Fatalf("fetch post error = %v", err)
	}
	want := "{\n  \"id\": \"1\",\n  \"favorited\": true\n}\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	out, err = run(t, t.TempDir(), "fetch", "post", base+"/echo")
	if err != nil {
		t.Fatal(err)
	}
	if out != "{}\n" {
		t.Errorf("empty body output = %q, want {}", out)
	}

	_, err = run(t, t.TempDir(), "fetch", "post", base+"/echo", "{oops")
	if err == nil || !strings.Contains(err.Error(), "E041") {
		t.Errorf("error = %v, want E041", err)
	}
}
