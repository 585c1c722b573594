//go:build llama

package llm

import (
	"context"
	"os"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"

	"atelierd/pkg/types"
)

// llamaExpander runs both passes against an in-process llama.cpp model.
type llamaExpander struct {
	model   *llama.LLama
	threads int
}

// NewExpander loads the model at cfg.ModelPath.
func NewExpander(cfg Config) (Expander, error) {
	cfg = cfg.withDefaults()
	if strings.TrimSpace(cfg.ModelPath) == "" {
		return nil, ErrUnavailable("model path is empty")
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, ErrUnavailable("model file not found at " + cfg.ModelPath)
	}
	m, err := llama.New(cfg.ModelPath, llama.SetContext(cfg.CtxSize))
	if err != nil {
		return nil, err
	}
	return &llamaExpander{model: m, threads: cfg.Threads}, nil
}

func (e *llamaExpander) Expand(ctx context.Context, prompt string) (types.Expansion, error) {
	expanded, err := e.predict(ctx, buildExpandPrompt(prompt), expandMaxTokens, expandTemp, expandStop)
	if err != nil {
		return types.Expansion{}, err
	}
	expanded = strings.TrimSpace(expanded)

	technical, err := e.predict(ctx, buildTechnicalPrompt(expanded), technicalTokens, technicalTemp, nil)
	if err != nil {
		return types.Expansion{}, err
	}

	return types.Expansion{
		Original:        prompt,
		Expanded:        expanded,
		Hints:           ExtractHints(expanded),
		TechnicalParams: strings.TrimSpace(technical),
	}, nil
}

func (e *llamaExpander) predict(ctx context.Context, prompt string, maxTokens int, temp float64, stop []string) (string, error) {
	e.model.SetTokenCallback(func(tok string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	})
	opts := []llama.PredictOption{
		llama.SetTokens(maxTokens),
		llama.SetThreads(e.threads),
		llama.SetTemperature(float32(temp)),
	}
	if len(stop) > 0 {
		opts = append(opts, llama.SetStopWords(stop...))
	}
	text, err := e.model.Predict(prompt, opts...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	return text, nil
}

func (e *llamaExpander) Close() error {
	if e.model != nil {
		e.model.Free()
		e.model = nil
	}
	return nil
}
