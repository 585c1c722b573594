package llm

import (
	"context"
	"strings"
	"testing"
)

func TestExtractHintsDefaults(t *testing.T) {
	h := ExtractHints("a dim alley rendered in neon")
	if h.PrimaryLight != "artificial" || h.Mood != "dark" {
		t.Fatalf("lighting: %+v", h)
	}
	if h.Perspective != "close" || h.Focus != "background" {
		t.Fatalf("composition: %+v", h)
	}
}

func TestExtractHintsKeywords(t *testing.T) {
	h := ExtractHints("Bright sunlight floods a vast panorama, dragon in the foreground")
	if h.PrimaryLight != "natural" {
		t.Fatalf("primary light: %q", h.PrimaryLight)
	}
	if h.Mood != "bright" {
		t.Fatalf("mood: %q", h.Mood)
	}
	if h.Perspective != "wide" {
		t.Fatalf("perspective: %q", h.Perspective)
	}
	if h.Focus != "foreground" {
		t.Fatalf("focus: %q", h.Focus)
	}
}

func TestPassThrough(t *testing.T) {
	e := PassThrough("a red cube")
	if e.Original != "a red cube" || e.Expanded != "a red cube" {
		t.Fatalf("passthrough: %+v", e)
	}
	if e.TechnicalParams != "" {
		t.Fatalf("expected empty technical params")
	}
}

func TestBuildExpandPrompt(t *testing.T) {
	p := buildExpandPrompt("a red cube")
	if !strings.Contains(p, "Original prompt: a red cube") {
		t.Fatalf("prompt: %q", p)
	}
	if !strings.HasSuffix(p, "Enhanced description:") {
		t.Fatalf("prompt suffix: %q", p)
	}
}

func TestConfigDefaults(t *testing.T) {
	c := Config{}.withDefaults()
	if c.CtxSize != defaultCtxSize || c.Threads != defaultThreads {
		t.Fatalf("defaults: %+v", c)
	}
}

func TestStubExpanderFailsFast(t *testing.T) {
	e, err := NewExpander(Config{ModelPath: "/nonexistent/model.gguf"})
	if err != nil {
		// llama-tagged builds reject the missing file at construction.
		if !IsUnavailable(err) {
			t.Fatalf("unexpected error: %v", err)
		}
		return
	}
	defer e.Close()
	_, err = e.Expand(context.Background(), "hi")
	if !IsUnavailable(err) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}
