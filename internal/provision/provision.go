// Package provision implements the deployment steps the service needs before
// it can start: toolchain checks, directory layout, dependency download and
// the model weight fetch. Steps run in a fixed order; the first failure
// aborts the run and surfaces the triggering error unchanged.
package provision

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"atelierd/internal/config"
)

const (
	defaultMaxAttempts    = 4
	defaultRetryBaseDelay = 1 * time.Second
)

// Provisioner runs the provisioning sequence against a config.
type Provisioner struct {
	cfg config.Config
	log zerolog.Logger

	// HTTPClient is used for model downloads. Defaults to a client with no
	// overall timeout; per-run deadlines come from the caller's context.
	HTTPClient *http.Client
	// Runner executes external commands (dependency install).
	Runner CmdRunner
	// MaxAttempts bounds download retries.
	MaxAttempts int
	// RetryBaseDelay is the first backoff interval; it doubles per attempt.
	RetryBaseDelay time.Duration
	// Tools overrides the default toolchain check list.
	Tools []string
}

// New constructs a Provisioner with defaults applied.
func New(cfg config.Config, log zerolog.Logger) *Provisioner {
	return &Provisioner{
		cfg:            cfg,
		log:            log,
		HTTPClient:     &http.Client{},
		Runner:         ExecRunner{},
		MaxAttempts:    defaultMaxAttempts,
		RetryBaseDelay: defaultRetryBaseDelay,
	}
}

// All runs the full sequence: tools, layout, deps, model. Mirrors the
// original build order; each step must complete before the next begins.
func (p *Provisioner) All(ctx context.Context) error {
	if _, err := p.CheckTools(); err != nil {
		return err
	}
	if err := p.EnsureLayout(); err != nil {
		return err
	}
	if err := p.InstallDeps(ctx); err != nil {
		return err
	}
	if _, err := p.FetchModel(ctx); err != nil {
		return err
	}
	return nil
}

// InstallDeps resolves and downloads the module's production dependency set.
// Exit codes from the tool propagate as the step error.
func (p *Provisioner) InstallDeps(ctx context.Context) error {
	p.log.Info().Msg("downloading module dependencies")
	return p.Runner.Run(ctx, Cmd{Path: "go", Args: []string{"mod", "download"}, Dir: p.cfg.RootDir})
}
