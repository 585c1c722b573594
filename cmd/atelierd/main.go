package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"atelierd/internal/appclient"
	"atelierd/internal/common/fsutil"
	"atelierd/internal/config"
	"atelierd/internal/httpapi"
	"atelierd/internal/llm"
	"atelierd/internal/memory"
	"atelierd/internal/pipeline"
	"atelierd/internal/registry"
)

func main() {
	// Local .env is optional; real env always wins.
	_ = godotenv.Load()

	configPath := flag.String("config", os.Getenv("ATELIER_CONFIG"), "Path to config file (yaml|json|toml)")
	addr := flag.String("addr", "", "HTTP listen address, e.g. :8888")
	rootDir := flag.String("root", "", "Deployment root directory")
	modelsDir := flag.String("models-dir", "", "Directory to scan for *.gguf model files")
	defaultModel := flag.String("default-model", "", "Default model id when request omits model")
	corsOrigins := flag.String("cors-origins", "", "Comma-separated allowed CORS origins (enables CORS)")
	flag.Parse()

	var cfg config.Config
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fatalLog := zerolog.New(os.Stderr)
			fatalLog.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
		}
		cfg = loaded
	}
	cfg.FromEnv()
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *rootDir != "" {
		cfg.RootDir = *rootDir
	}
	if *modelsDir != "" {
		cfg.ModelsDir = *modelsDir
	}
	if *defaultModel != "" {
		cfg.DefaultModel = *defaultModel
	}
	if origins := splitCSV(*corsOrigins); len(origins) > 0 {
		cfg.CORSEnabled = true
		cfg.CORSOrigins = origins
	}
	cfg.ApplyDefaults()

	logger := newLogger(cfg.LogLevel)

	modelsPath, err := fsutil.ExpandHome(cfg.ModelsDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to resolve models dir")
	}
	for _, dir := range []string{modelsPath, cfg.DatastoreDir, cfg.AssetsDir()} {
		if err := fsutil.EnsureDir(dir); err != nil {
			logger.Fatal().Err(err).Str("dir", dir).Msg("failed to create directory")
		}
	}

	models, err := registry.LoadDir(modelsPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load models")
	}
	logger.Info().Int("models", len(models)).Str("dir", modelsPath).Msg("registry loaded")

	store, err := memory.OpenCreationStore(filepath.Join(cfg.DatastoreDir, "creations.json"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open creation store")
	}

	var modelPath string
	if m, ok := registry.Resolve(models, cfg.DefaultModel); ok {
		modelPath = m.Path
	}
	expander, err := llm.NewExpander(llm.Config{
		ModelPath: modelPath,
		CtxSize:   cfg.LlamaCtx,
		Threads:   cfg.LlamaThreads,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize expander")
	}
	defer expander.Close()

	apps := appclient.New(cfg.Text2ImgURL, cfg.Img2ObjURL, logger)

	pipe := pipeline.New(pipeline.Config{
		Registry:     models,
		DefaultModel: cfg.DefaultModel,
		AssetsDir:    cfg.AssetsDir(),
		Expander:     expander,
		Apps:         apps,
		Store:        store,
		Logger:       logger,
		Publisher:    pipeline.NewLogPublisher(logger),
	})

	httpapi.SetLogger(logger)
	if cfg.MaxBodyBytes > 0 {
		httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	}
	httpapi.SetGenerateTimeoutSeconds(int64(cfg.RequestTimeout))
	if cfg.CORSEnabled {
		httpapi.SetCORSOptions(true, cfg.CORSOrigins,
			[]string{"GET", "POST", "OPTIONS"},
			[]string{"Accept", "Content-Type", "X-Log-Level"})
	}

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	mux := httpapi.NewMux(pipe)
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("atelierd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info().Msg("shutting down")
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
