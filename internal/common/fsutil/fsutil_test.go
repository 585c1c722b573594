package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandHomeNoTilde(t *testing.T) {
	got, err := ExpandHome("/var/lib/atelier")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/var/lib/atelier" {
		t.Fatalf("got %q", got)
	}
}

func TestExpandHomeTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	got, err := ExpandHome("~/models")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != filepath.Join(home, "models") {
		t.Fatalf("got %q", got)
	}
}

func TestExpandHomeEmpty(t *testing.T) {
	got, err := ExpandHome("")
	if err != nil || got != "" {
		t.Fatalf("got %q err=%v", got, err)
	}
}

func TestPathExists(t *testing.T) {
	dir := t.TempDir()
	if !PathExists(dir) {
		t.Fatalf("expected existing dir to be reported")
	}
	if PathExists(filepath.Join(dir, "missing")) {
		t.Fatalf("expected missing path to be reported absent")
	}
}

func TestEnsureDirIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		t.Fatalf("stat: %v", err)
	}
}

func TestEnsureDirRejectsFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := EnsureDir(p); err == nil {
		t.Fatalf("expected error for file path")
	}
}
