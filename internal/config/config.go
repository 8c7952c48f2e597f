package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

type Source struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

type ModelConfig struct {
	Provider string `yaml:"provider"` // "huggingface", "openai", "claude" or "lexicon"
	Name     string `yaml:"name"`
	Endpoint string `yaml:"endpoint,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
	Timeout  string `yaml:"timeout,omitempty"`
	Retries  int    `yaml:"retries,omitempty"`
}

type CacheConfig struct {
	Backend string `yaml:"backend"` // "json" or "sqlite"
	Path    string `yaml:"path,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

type Config struct {
	Model        ModelConfig `yaml:"model"`
	Cache        CacheConfig `yaml:"cache"`
	ExportPath   string      `yaml:"export_path"`
	ImportColumn string      `yaml:"import_column"`
	Log          LogConfig   `yaml:"log"`
	Sources      []Source    `yaml:"sources"`
}

// APIKey returns the resolved model API key (config, then KANJO_API_KEY, then HF_TOKEN).
func (c *Config) APIKey() string {
	if c.Model.APIKey != "" {
		return c.Model.APIKey
	}
	if key := os.Getenv("KANJO_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("HF_TOKEN")
}

func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Model.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// CachePath returns the configured cache location, or the XDG default for the backend.
func (c *Config) CachePath() string {
	if c.Cache.Path != "" {
		return c.Cache.Path
	}
	name := "cache.json"
	if c.Cache.Backend == "sqlite" {
		name = "cache.db"
	}
	return filepath.Join(xdg.CacheHome, "kanjo", name)
}

func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(xdg.StateHome, "kanjo", "kanjo.log")
}

func (c *Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// SourceNames lists every configured source, enabled or not.
func (c *Config) SourceNames() []string {
	var names []string
	for _, s := range c.Sources {
		names = append(names, s.Name)
	}
	return names
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "kanjo", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path (or the default path) on top of the embedded
// defaults. A .env file in the working directory is loaded first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Non-fatal: embedded defaults still apply
			_ = writeDefaults(path)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	validProviders := map[string]bool{"huggingface": true, "openai": true, "claude": true, "lexicon": true}
	if !validProviders[cfg.Model.Provider] {
		return fmt.Errorf("model: unknown provider %q (valid: huggingface, openai, claude, lexicon)", cfg.Model.Provider)
	}
	if cfg.Model.Endpoint != "" {
		if err := checkURL(cfg.Model.Endpoint); err != nil {
			return fmt.Errorf("model: endpoint: %w", err)
		}
	}
	if cfg.Model.Timeout != "" {
		if _, err := time.ParseDuration(cfg.Model.Timeout); err != nil {
			return fmt.Errorf("model: invalid timeout %q: %w", cfg.Model.Timeout, err)
		}
	}
	if cfg.Model.Retries < 0 {
		return fmt.Errorf("model: retries must be >= 0, got %d", cfg.Model.Retries)
	}

	if cfg.Cache.Backend != "json" && cfg.Cache.Backend != "sqlite" {
		return fmt.Errorf("cache: unknown backend %q (valid: json, sqlite)", cfg.Cache.Backend)
	}
	if cfg.ImportColumn == "" {
		return fmt.Errorf("import_column is required")
	}

	validTypes := map[string]bool{"rss": true, "atom": true}
	for i, s := range cfg.Sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if s.URL == "" {
			return fmt.Errorf("source %q: url is required", s.Name)
		}
		if err := checkURL(s.URL); err != nil {
			return fmt.Errorf("source %q: %w", s.Name, err)
		}
		if !validTypes[s.Type] {
			return fmt.Errorf("source %q: unknown type %q (valid: rss, atom)", s.Name, s.Type)
		}
	}
	return nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	return nil
}
