package atelierctl

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"atelierd/internal/config"
	"atelierd/internal/provision"
)

// loadConfig resolves the effective config: file (if given), then env
// overlays, then flag overrides, then defaults.
func loadConfig(cfg *Config) (config.Config, error) {
	var c config.Config
	if cfg.ConfigPath != "" {
		loaded, err := config.Load(cfg.ConfigPath)
		if err != nil {
			return c, fmt.Errorf("load config: %w", err)
		}
		c = loaded
	}
	c.FromEnv()
	if cfg.Root != "" {
		c.RootDir = cfg.Root
	}
	if cfg.Addr != "" {
		c.Addr = cfg.Addr
	}
	c.ApplyDefaults()
	return c, nil
}

func newProvisioner(c config.Config) *provision.Provisioner {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	return provision.New(c, zl)
}

func checkTools(cfg *Config) error {
	c, err := loadConfig(cfg)
	if err != nil {
		return err
	}
	report, err := newProvisioner(c).CheckTools()
	for _, t := range report.Tools {
		if t.Found {
			info("tool %-8s %s", t.Name, t.Path)
		} else {
			warn("tool %-8s MISSING", t.Name)
		}
	}
	return err
}

func ensureDirs(cfg *Config) error {
	c, err := loadConfig(cfg)
	if err != nil {
		return err
	}
	if err := newProvisioner(c).EnsureLayout(); err != nil {
		return err
	}
	info("layout ready: %s, %s, %s", c.ModelsDir, c.DatastoreDir, c.AssetsDir())
	return nil
}

func installDeps(cfg *Config) error {
	c, err := loadConfig(cfg)
	if err != nil {
		return err
	}
	return newProvisioner(c).InstallDeps(context.Background())
}

func fetchModel(cfg *Config) error {
	c, err := loadConfig(cfg)
	if err != nil {
		return err
	}
	res, err := newProvisioner(c).FetchModel(context.Background())
	if err != nil {
		return err
	}
	switch {
	case res.Skipped:
		info("model already present and verified: %s", res.Path)
	case res.Resumed:
		info("model fetched (resumed, %d bytes, %d attempts): %s", res.Bytes, res.Attempts, res.Path)
	default:
		info("model fetched (%d bytes, %d attempts): %s", res.Bytes, res.Attempts, res.Path)
	}
	return nil
}

func provisionAll(cfg *Config) error {
	c, err := loadConfig(cfg)
	if err != nil {
		return err
	}
	return newProvisioner(c).All(context.Background())
}

// upDaemon provisions the host, starts the daemon and blocks until it exits.
// Readiness is gated on /readyz so callers can script against the exit code.
func upDaemon(cfg *Config) error {
	c, err := loadConfig(cfg)
	if err != nil {
		return err
	}
	if err := newProvisioner(c).All(context.Background()); err != nil {
		return err
	}

	bin, err := daemonBinary()
	if err != nil {
		return err
	}
	args := []string{}
	if cfg.ConfigPath != "" {
		args = append(args, "--config", cfg.ConfigPath)
	}
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(),
		"ATELIER_ADDR="+c.Addr,
		"ATELIER_ROOT="+c.RootDir,
	)
	info("starting daemon: %s", bin)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}
	TrackProcess(cmd)

	// Forward termination signals to the child.
	sigc := make(chan os.Signal, 2)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)
	go func() {
		for s := range sigc {
			if cmd.Process != nil {
				_ = cmd.Process.Signal(s)
			}
		}
	}()

	if err := provision.WaitHTTP(readyURL(c.Addr), 200, 60*time.Second); err != nil {
		_ = killProcesses()
		return fmt.Errorf("daemon did not become ready: %w", err)
	}
	info("daemon ready on %s", c.Addr)
	return cmd.Wait()
}

// daemonBinary resolves the atelierd binary: ATELIERD_BIN, then a sibling of
// the running executable, then PATH.
func daemonBinary() (string, error) {
	if v := os.Getenv("ATELIERD_BIN"); v != "" {
		return v, nil
	}
	if self, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(self), "atelierd")
		if st, err := os.Stat(sibling); err == nil && !st.IsDir() {
			return sibling, nil
		}
	}
	if p, err := exec.LookPath("atelierd"); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("atelierd binary not found (set ATELIERD_BIN or add it to PATH)")
}

// readyURL turns a listen address into a loopback readiness probe URL.
func readyURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://127.0.0.1:8888/readyz"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + "/readyz"
}
