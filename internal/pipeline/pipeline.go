// Package pipeline orchestrates one creative run end to end: LLM prompt
// expansion, text-to-image generation, image-to-3D conversion, and
// persistence of the resulting assets.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"atelierd/internal/llm"
	"atelierd/internal/memory"
	"atelierd/pkg/types"
)

// Apps is the downstream generation surface the pipeline depends on.
// *appclient.Client satisfies it.
type Apps interface {
	GenerateImage(ctx context.Context, prompt string, hints types.StyleHints) ([]byte, error)
	GenerateObject(ctx context.Context, image []byte, params string) ([]byte, error)
}

// Config carries the pipeline's collaborators and layout.
type Config struct {
	Registry     []types.Model
	DefaultModel string
	AssetsDir    string
	Expander     llm.Expander
	Apps         Apps
	Sessions     *memory.SessionStore
	Store        *memory.CreationStore
	Logger       zerolog.Logger
	Publisher    EventPublisher
}

// Pipeline runs creative generations and answers status queries.
type Pipeline struct {
	registry     []types.Model
	defaultModel string
	assetsDir    string
	expander     llm.Expander
	apps         Apps
	sessions     *memory.SessionStore
	store        *memory.CreationStore
	log          zerolog.Logger
	publisher    EventPublisher

	startTime time.Time
	runs      atomic.Uint64
	failures  atomic.Uint64

	mu       sync.RWMutex
	lastErr  string
}

// New constructs a Pipeline. Sessions defaults to a fresh store and the
// publisher to a no-op when unset.
func New(cfg Config) *Pipeline {
	p := &Pipeline{
		registry:     cfg.Registry,
		defaultModel: cfg.DefaultModel,
		assetsDir:    cfg.AssetsDir,
		expander:     cfg.Expander,
		apps:         cfg.Apps,
		sessions:     cfg.Sessions,
		store:        cfg.Store,
		log:          cfg.Logger,
		publisher:    cfg.Publisher,
		startTime:    time.Now(),
	}
	if p.sessions == nil {
		p.sessions = memory.NewSessionStore()
	}
	if p.publisher == nil {
		p.publisher = noopPublisher{}
	}
	return p
}

// ListModels returns a copy of the registry.
func (p *Pipeline) ListModels() []types.Model {
	out := make([]types.Model, len(p.registry))
	copy(out, p.registry)
	return out
}

// Ready reports whether the pipeline can accept work.
func (p *Pipeline) Ready() bool {
	return p.store != nil && p.apps != nil
}

// GetCreation returns a persisted creation by id.
func (p *Pipeline) GetCreation(id string) (types.Creation, bool) {
	if p.store == nil {
		return types.Creation{}, false
	}
	return p.store.Get(id)
}

// ListCreations returns all persisted creations, newest first.
func (p *Pipeline) ListCreations() []types.Creation {
	if p.store == nil {
		return nil
	}
	return p.store.List()
}

// Status builds the response for GET /status.
func (p *Pipeline) Status() types.StatusResponse {
	p.mu.RLock()
	lastErr := p.lastErr
	p.mu.RUnlock()
	state := "ready"
	if !p.Ready() {
		state = "loading"
	}
	count := 0
	if p.store != nil {
		count = p.store.Count()
	}
	now := time.Now()
	return types.StatusResponse{
		State:          state,
		DefaultModel:   p.defaultModel,
		ModelCount:     len(p.registry),
		CreationCount:  count,
		RunsTotal:      p.runs.Load(),
		FailuresTotal:  p.failures.Load(),
		LastError:      lastErr,
		UptimeSeconds:  int64(now.Sub(p.startTime).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
}

// Process runs the full pipeline for req and persists the result.
// A failing stage aborts the rest; the returned error names the stage.
func (p *Pipeline) Process(ctx context.Context, req types.GenerateRequest) (types.Creation, error) {
	if req.Model != "" && !p.modelKnown(req.Model) {
		return types.Creation{}, ErrModelNotFound(req.Model)
	}
	id := req.SessionID
	if id == "" {
		id = uuid.NewString()
	}
	p.runs.Add(1)
	p.publisher.Publish(Event{Name: "run_start", SessionID: id, Fields: map[string]any{}})
	c, err := p.process(ctx, id, req.Prompt)
	if err != nil {
		p.failures.Add(1)
		p.setLastErr(err)
		runsTotal.WithLabelValues("error").Inc()
		p.publisher.Publish(Event{Name: "run_error", SessionID: id, Fields: map[string]any{"stage": FailedStage(err), "error": err.Error()}})
		return types.Creation{}, err
	}
	runsTotal.WithLabelValues("ok").Inc()
	p.publisher.Publish(Event{Name: "run_done", SessionID: id, Fields: map[string]any{}})
	return c, nil
}

func (p *Pipeline) process(ctx context.Context, id, prompt string) (types.Creation, error) {
	// 1. Expand the prompt. Expansion failures degrade to pass-through so
	// generation still proceeds on the raw prompt.
	expStart := time.Now()
	expansion, err := p.expand(ctx, prompt)
	if err != nil {
		return types.Creation{}, err
	}
	observeStage("expand", expStart)
	p.sessions.Save("prompt_"+id, expansion)

	// 2. Render the image.
	imgStart := time.Now()
	img, err := p.apps.GenerateImage(ctx, expansion.Expanded, expansion.Hints)
	if err != nil {
		return types.Creation{}, stageError{stage: "text2img", err: err}
	}
	observeStage("text2img", imgStart)
	imgPath, err := p.writeAsset(id+".png", img)
	if err != nil {
		return types.Creation{}, stageError{stage: "text2img", err: err}
	}
	p.sessions.Save("image_"+id, map[string]any{"path": imgPath, "hints": expansion.Hints})

	// 3. Convert to 3D.
	objStart := time.Now()
	obj, err := p.apps.GenerateObject(ctx, img, expansion.TechnicalParams)
	if err != nil {
		return types.Creation{}, stageError{stage: "img2obj", err: err}
	}
	observeStage("img2obj", objStart)
	objPath, err := p.writeAsset(id+".glb", obj)
	if err != nil {
		return types.Creation{}, stageError{stage: "img2obj", err: err}
	}
	p.sessions.Save("object_"+id, map[string]any{"path": objPath})

	// 4. Persist the creation.
	creation := types.Creation{
		ID:          id,
		Prompt:      expansion,
		ImagePath:   imgPath,
		ObjectPath:  objPath,
		CreatedUnix: time.Now().Unix(),
	}
	if err := p.store.Put(creation); err != nil {
		return types.Creation{}, stageError{stage: "persist", err: err}
	}
	p.log.Info().Str("session", id).Str("image", imgPath).Str("object", objPath).Msg("creation persisted")
	return creation, nil
}

// expand runs the LLM pass, falling back to the raw prompt when the model
// is unavailable or errors. Context cancellation is not degraded.
func (p *Pipeline) expand(ctx context.Context, prompt string) (types.Expansion, error) {
	if p.expander == nil {
		expandFallbacksTotal.Inc()
		return llm.PassThrough(prompt), nil
	}
	expansion, err := p.expander.Expand(ctx, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return types.Expansion{}, stageError{stage: "expand", err: ctx.Err()}
		}
		p.log.Warn().Err(err).Msg("prompt expansion failed, using pass-through")
		expandFallbacksTotal.Inc()
		return llm.PassThrough(prompt), nil
	}
	return expansion, nil
}

func (p *Pipeline) writeAsset(name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty asset %s", name)
	}
	path := filepath.Join(p.assetsDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (p *Pipeline) modelKnown(id string) bool {
	for _, m := range p.registry {
		if m.ID == id {
			return true
		}
	}
	return false
}

func (p *Pipeline) setLastErr(err error) {
	p.mu.Lock()
	p.lastErr = err.Error()
	p.mu.Unlock()
}
