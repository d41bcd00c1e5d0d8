package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/pagekit/internal/config"
)

// run executes the CLI in dir and returns what it printed to stdout.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvConfigPath, "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--dir", dir}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if out != version+"\n" {
		t.Errorf("version --short = %q, want %q", out, version+"\n")
	}

	out, err = run(t, t.TempDir(), "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Go version:") {
		t.Errorf("version output missing Go version:\n%s", out)
	}
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"storage":{"backend":"sqlite"}}`)

	_, err := run(t, dir, "url", "/")
	if err == nil || !strings.Contains(err.Error(), "E032") {
		t.Errorf("error = %v, want E032", err)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()

	if _, err := run(t, dir, "config", "init"); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, config.ConfigFileName)); err != nil {
		t.Fatalf("pagekit.json not written: %v", err)
	}

	if _, err := run(t, dir, "config", "init"); err == nil {
		t.Error("second config init should fail without --force")
	}
	if _, err := run(t, dir, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force error = %v", err)
	}

	out, err := run(t, dir, "config", "show", "--log-level", "debug")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"level": "debug"`) {
		t.Errorf("config show missing level override:\n%s", out)
	}
}
