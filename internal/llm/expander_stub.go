//go:build !llama

package llm

// This file provides a no-CGO stub for the llama expander. It is compiled
// when the 'llama' build tag is NOT set, keeping default builds and CI
// CGO-free. The real expander lives in expander_llama.go (tagged 'llama').

import (
	"context"

	"atelierd/pkg/types"
)

type stubExpander struct{}

// NewExpander returns an Expander that refuses to run without the 'llama'
// build tag. This avoids any mocked generation in production binaries built
// without CGO support.
func NewExpander(cfg Config) (Expander, error) {
	return stubExpander{}, nil
}

func (stubExpander) Expand(ctx context.Context, prompt string) (types.Expansion, error) {
	select {
	case <-ctx.Done():
		return types.Expansion{}, ctx.Err()
	default:
	}
	return types.Expansion{}, ErrUnavailable("llama support not built (missing 'llama' build tag)")
}

func (stubExpander) Close() error { return nil }
