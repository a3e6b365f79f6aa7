// Package config loads the YAML application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abelbrown/hackerstories/internal/pager"
	"github.com/abelbrown/hackerstories/internal/source"
	"gopkg.in/yaml.v3"
)

// Source names.
const (
	SourceLive = "live"
	SourceFake = "fake"
)

// Environment overrides.
const (
	EnvSource = "HACKERSTORIES_SOURCE"
	EnvAPIURL = "HACKERSTORIES_API_URL"
)

// FileName is the config file name inside the data directory.
const FileName = "config.yaml"

// Config is the persistent application configuration
type Config struct {
	// Source selects the backend: "live" or "fake".
	Source string     `yaml:"source"`
	API    APIConfig  `yaml:"api"`
	Fake   FakeConfig `yaml:"fake"`
	UI     UIConfig   `yaml:"ui"`
	Log    LogConfig  `yaml:"log"`
}

// APIConfig configures the live search API client.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"` // requests per second
	Burst     int           `yaml:"burst"`
}

// FakeConfig holds the simulated latencies of the fake source.
type FakeConfig struct {
	FetchDelay  time.Duration `yaml:"fetch_delay"`
	MutateDelay time.Duration `yaml:"mutate_delay"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	PagerMode       pager.Mode    `yaml:"pager_mode"`
	PagerSize       int           `yaml:"pager_size"`
	ErrorClearDelay time.Duration `yaml:"error_clear_delay"`
	DefaultSearch   string        `yaml:"default_search"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Source: SourceLive,
		API: APIConfig{
			BaseURL:   source.DefaultBaseURL,
			Timeout:   10 * time.Second,
			RateLimit: 2,
			Burst:     4,
		},
		Fake: FakeConfig{
			FetchDelay:  source.DefaultFetchDelay,
			MutateDelay: source.DefaultMutateDelay,
		},
		UI: UIConfig{
			PagerMode:       pager.LoadMoreManual,
			PagerSize:       pager.DefaultWindowSize,
			ErrorClearDelay: 2 * time.Second,
			DefaultSearch:   "React",
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultDataDir returns ~/.hackerstories.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hackerstories"
	}
	return filepath.Join(home, ".hackerstories")
}

// Path returns the config file path inside dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// Load reads config from path on top of the defaults. A missing file yields
// the defaults; a malformed one is an error. Environment overrides are
// applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// Save writes config to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvSource); v != "" {
		c.Source = v
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
}

// Validate checks the config for values the application cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Source != SourceLive && c.Source != SourceFake {
		errs = append(errs, fmt.Errorf("source: must be %q or %q, got %q", SourceLive, SourceFake, c.Source))
	}
	if _, err := pager.ParseMode(string(c.UI.PagerMode)); err != nil {
		errs = append(errs, fmt.Errorf("ui.pager_mode: %w", err))
	}
	if c.UI.PagerSize < 1 {
		errs = append(errs, fmt.Errorf("ui.pager_size: must be positive, got %d", c.UI.PagerSize))
	}
	if c.UI.ErrorClearDelay <= 0 {
		errs = append(errs, fmt.Errorf("ui.error_clear_delay: must be positive, got %s", c.UI.ErrorClearDelay))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout: must be positive, got %s", c.API.Timeout))
	}
	if c.API.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("api.rate_limit: must not be negative, got %v", c.API.RateLimit))
	}
	if c.Fake.FetchDelay < 0 || c.Fake.MutateDelay < 0 {
		errs = append(errs, errors.New("fake: delays must not be negative"))
	}

	return errors.Join(errs...)
}
