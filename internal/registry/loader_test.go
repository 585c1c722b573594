package registry

import (
	"os"
	"path/filepath"
	"testing"

	"atelierd/pkg/types"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatalf("touch %s: %v", name, err)
	}
}

func TestLoadDirFiltersGGUF(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "llama-2-7b.Q4_K_M.gguf")
	touch(t, dir, "notes.txt")
	touch(t, dir, "mistral-7b.Q5_K_S.GGUF")
	if err := os.Mkdir(filepath.Join(dir, "sub.gguf"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	models, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models got %d", len(models))
	}
	for _, m := range models {
		if m.Path == "" || m.ID != m.Name {
			t.Fatalf("unexpected model: %+v", m)
		}
	}
}

func TestLoadDirMissing(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}

func TestQuantAndFamily(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "llama-2-7b.Q4_K_M.gguf")
	models, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if models[0].Quant != "Q4_K_M" {
		t.Fatalf("quant: %q", models[0].Quant)
	}
	if models[0].Family != "llama" {
		t.Fatalf("family: %q", models[0].Family)
	}
}

func TestResolve(t *testing.T) {
	reg := []types.Model{{ID: "a.gguf"}, {ID: "b.gguf"}}
	if _, ok := Resolve(reg, "b.gguf"); !ok {
		t.Fatalf("expected to resolve b.gguf")
	}
	if _, ok := Resolve(reg, ""); ok {
		t.Fatalf("empty id with two models must not resolve")
	}
	if m, ok := Resolve(reg[:1], ""); !ok || m.ID != "a.gguf" {
		t.Fatalf("single-model default failed: %+v ok=%v", m, ok)
	}
	if _, ok := Resolve(reg, "missing.gguf"); ok {
		t.Fatalf("unknown id must not resolve")
	}
}
