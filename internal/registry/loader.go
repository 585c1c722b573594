package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"atelierd/internal/common/fsutil"
	"atelierd/pkg/types"
)

// LoadDir scans a directory for *.gguf files and builds a registry from
// filenames. ID is the full filename (including extension); Path is the
// absolute file path.
func LoadDir(dir string) ([]types.Model, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".gguf") {
			continue
		}
		models = append(models, types.Model{
			ID:     name,
			Name:   name,
			Path:   filepath.Join(abs, name),
			Quant:  quantOf(name),
			Family: familyOf(name),
		})
	}
	return models, nil
}

// Resolve returns the model with the given id, or the only model when id is
// empty and exactly one is present.
func Resolve(models []types.Model, id string) (types.Model, bool) {
	if id == "" {
		if len(models) == 1 {
			return models[0], true
		}
		return types.Model{}, false
	}
	for _, m := range models {
		if m.ID == id {
			return m, true
		}
	}
	return types.Model{}, false
}

// quantOf extracts a quantization token like Q4_K_M from a gguf filename.
func quantOf(name string) string {
	upper := strings.ToUpper(strings.TrimSuffix(name, filepath.Ext(name)))
	for _, part := range strings.FieldsFunc(upper, func(r rune) bool { return r == '.' || r == '-' }) {
		if strings.HasPrefix(part, "Q") && strings.Contains(part, "_") {
			return part
		}
	}
	return ""
}

// familyOf guesses the model family from well-known name prefixes.
func familyOf(name string) string {
	lower := strings.ToLower(name)
	for _, fam := range []string{"llama", "mistral", "phi", "qwen", "gemma"} {
		if strings.Contains(lower, fam) {
			return fam
		}
	}
	return ""
}
