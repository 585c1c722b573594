package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ModelManifest pins the weight file the provisioner downloads.
type ModelManifest struct {
	// Download URL for the weight file.
	URL string `json:"url" yaml:"url" toml:"url"`
	// Target filename under the models directory. Derived from URL when empty.
	Filename string `json:"filename" yaml:"filename" toml:"filename"`
	// Expected SHA-256 digest (hex). Verification is skipped when empty.
	SHA256 string `json:"sha256" yaml:"sha256" toml:"sha256"`
	// Expected size in bytes. Size check is skipped when zero.
	SizeBytes int64 `json:"size_bytes" yaml:"size_bytes" toml:"size_bytes"`
}

// Config holds runtime parameters for the daemon and the provisioner.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr         string        `json:"addr" yaml:"addr" toml:"addr"`
	RootDir      string        `json:"root_dir" yaml:"root_dir" toml:"root_dir"`
	ModelsDir    string        `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	DatastoreDir string        `json:"datastore_dir" yaml:"datastore_dir" toml:"datastore_dir"`
	DefaultModel string        `json:"default_model" yaml:"default_model" toml:"default_model"`
	Model        ModelManifest `json:"model" yaml:"model" toml:"model"`

	// Downstream generation apps.
	Text2ImgURL string `json:"text2img_url" yaml:"text2img_url" toml:"text2img_url"`
	Img2ObjURL  string `json:"img2obj_url" yaml:"img2obj_url" toml:"img2obj_url"`

	// LLM runtime tunables.
	LlamaCtx     int `json:"llama_ctx" yaml:"llama_ctx" toml:"llama_ctx"`
	LlamaThreads int `json:"llama_threads" yaml:"llama_threads" toml:"llama_threads"`

	// HTTP surface tunables.
	MaxBodyBytes   int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	RequestTimeout int      `json:"request_timeout_sec" yaml:"request_timeout_sec" toml:"request_timeout_sec"`
	CORSEnabled    bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins    []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`

	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// ApplyDefaults fills unspecified fields with the standard layout: a single
// root with models/ and datastore/ beneath it, one listen port.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = ":8888"
	}
	if c.RootDir == "" {
		c.RootDir = "."
	}
	if c.ModelsDir == "" {
		c.ModelsDir = filepath.Join(c.RootDir, "models")
	}
	if c.DatastoreDir == "" {
		c.DatastoreDir = filepath.Join(c.RootDir, "datastore")
	}
	if c.Model.Filename == "" && c.Model.URL != "" {
		c.Model.Filename = filepath.Base(c.Model.URL)
	}
	if c.LlamaCtx <= 0 {
		c.LlamaCtx = 2048
	}
	if c.LlamaThreads <= 0 {
		c.LlamaThreads = 4
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// AssetsDir returns the directory pipeline assets are written to.
func (c Config) AssetsDir() string {
	return filepath.Join(c.DatastoreDir, "assets")
}

// FromEnv overlays environment variables onto the config. Envs win over
// file values so container deployments can override without editing files.
func (c *Config) FromEnv() {
	if v := os.Getenv("ATELIER_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("ATELIER_ROOT"); v != "" {
		c.RootDir = v
	}
	if v := os.Getenv("ATELIER_MODELS_DIR"); v != "" {
		c.ModelsDir = v
	}
	if v := os.Getenv("ATELIER_DATASTORE_DIR"); v != "" {
		c.DatastoreDir = v
	}
	if v := os.Getenv("ATELIER_DEFAULT_MODEL"); v != "" {
		c.DefaultModel = v
	}
	if v := os.Getenv("ATELIER_MODEL_URL"); v != "" {
		c.Model.URL = v
	}
	if v := os.Getenv("ATELIER_MODEL_SHA256"); v != "" {
		c.Model.SHA256 = v
	}
	if v := os.Getenv("ATELIER_TEXT2IMG_URL"); v != "" {
		c.Text2ImgURL = v
	}
	if v := os.Getenv("ATELIER_IMG2OBJ_URL"); v != "" {
		c.Img2ObjURL = v
	}
	if v := os.Getenv("ATELIER_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}
