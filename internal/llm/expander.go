// Package llm turns a raw user prompt into an enriched scene description
// for the downstream generation stages. The real implementation runs a
// local llama.cpp model ('llama' build tag); the default build fails fast
// with an unavailable error instead of mocking output.
package llm

import (
	"context"
	"strings"

	"atelierd/pkg/types"
)

// Generation parameters for the two passes, matching the serving defaults
// the model was tuned against.
const (
	expandMaxTokens = 512
	expandTemp      = 0.7
	technicalTokens = 256
	technicalTemp   = 0.3
	defaultCtxSize  = 2048
	defaultThreads  = 4
)

const expandSystemContext = `You are an expert artistic director specializing in both 2D and 3D art. ` +
	`Enhance and expand the given prompt with vivid, specific details that will guide both image ` +
	`generation and 3D modeling. Focus on lighting, composition, perspective, materials, and mood.`

const technicalPrompt = "Extract key technical aspects for 3D modeling:"

var expandStop = []string{"Original prompt:", "\n\n"}

// Config holds runtime tunables for the expander.
type Config struct {
	ModelPath string
	CtxSize   int
	Threads   int
}

func (c Config) withDefaults() Config {
	if c.CtxSize <= 0 {
		c.CtxSize = defaultCtxSize
	}
	if c.Threads <= 0 {
		c.Threads = defaultThreads
	}
	return c
}

// Expander produces prompt expansions.
type Expander interface {
	// Expand runs the expansion and technical passes for prompt.
	// Implementations must return when the context is canceled.
	Expand(ctx context.Context, prompt string) (types.Expansion, error)
	// Close releases model resources.
	Close() error
}

// PassThrough returns the degraded expansion used when no model is
// available: the original prompt with empty hints.
func PassThrough(prompt string) types.Expansion {
	return types.Expansion{Original: prompt, Expanded: prompt}
}

// ExtractHints classifies lighting and composition from expanded text.
func ExtractHints(text string) types.StyleHints {
	lower := strings.ToLower(text)
	h := types.StyleHints{
		PrimaryLight: "artificial",
		Mood:         "dark",
		Perspective:  "close",
		Focus:        "background",
	}
	if strings.Contains(lower, "sunlight") {
		h.PrimaryLight = "natural"
	}
	if containsAny(lower, "bright", "sunny", "daylight") {
		h.Mood = "bright"
	}
	if containsAny(lower, "panorama", "wide", "vast") {
		h.Perspective = "wide"
	}
	if strings.Contains(lower, "foreground") {
		h.Focus = "foreground"
	}
	return h
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func buildExpandPrompt(prompt string) string {
	return expandSystemContext + "\nOriginal prompt: " + prompt + "\nEnhanced description:"
}

func buildTechnicalPrompt(expanded string) string {
	return expanded + "\n" + technicalPrompt
}
