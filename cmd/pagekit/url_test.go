package main

import (
	"strings"
	"testing"
)

func TestURLCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "overwrite and append",
			args: []string{"/list?a=1&b=2", "b=3", "c=4"},
			want: "/list?a=1&b=3&c=4\n",
		},
		{
			name: "remove last parameter",
			args: []string{"/list?q=x", "q="},
			want: "/list\n",
		},
		{
			name: "no updates",
			args: []string{"/list?page=2#top"},
			want: "/list?page=2\n",
		},
		{
			name: "space and reserved bytes",
			args: []string{"/search", "q=a b&c"},
			want: "/search?q=a+b%26c\n",
		},
		{
			name: "each matches batch",
			args: []string{"/list?a=1&b=2", "b=3", "c=4", "--each"},
			want: "/list?a=1&b=3&c=4\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, t.TempDir(), append([]string{"url"}, tt.args...)...)
			if err != nil {
				t.Fatalf("url error = %v", err)
			}
			if out != tt.want {
				t.Errorf("url output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestURLCommandHistory(t *testing.T) {
	out, err := run(t, t.TempDir(), "url", "/p", "a=1", "b=2", "--each", "--history")
	if err != nil {
		t.Fatal(err)
	}
	want := "1 /p?a=1\n2 /p?a=1&b=2\n/p?a=1&b=2\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	out, err = run(t, t.TempDir(), "url", "/p", "a=1", "b=2", "--history")
	if err != nil {
		t.Fatal(err)
	}
	if want := "1 /p?a=1&b=2\n/p?a=1&b=2\n"; out != want {
		t.Errorf("batched output = %q, want %q", out, want)
	}
}

func TestURLCommandParams(t *testing.T) {
	out, err := run(t, t.TempDir(), "url", "/search?q=a+b&page=2", "--params")
	if err != nil {
		t.Fatal(err)
	}
	if want := "q=a b\npage=2\n"; out != want {
		t.Errorf("params = %q, want %q", out, want)
	}
}

func TestURLCommandInvalidUpdate(t *testing.T) {
	for _, arg := range []string{"novalue", "=x"} {
		_, err := run(t, t.TempDir(), "url", "/", arg)
		if err == nil || !strings.Contains(err.Error(), "E012") {
			t.Errorf("url / %s: error = %v, want E012", arg, err)
		}
	}
}
