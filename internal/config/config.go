package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// VoiceConfig names the external speech-to-text command used for voice
// queries. Leaving it empty disables the voice trigger.
type VoiceConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
}

type Config struct {
	// BaseURL is the backend's API base path.
	BaseURL string `yaml:"base_url"`
	// RequestTimeout bounds every network call (e.g. "15s").
	RequestTimeout string `yaml:"request_timeout,omitempty"`
	// DefaultSort is the initial results order: newest, source, or title.
	DefaultSort string       `yaml:"sort,omitempty"`
	Voice       *VoiceConfig `yaml:"voice,omitempty"`
}

// VoiceCommand returns the configured capture command, with the
// NEWSDESK_VOICE_CMD env var as an override.
func (c *Config) VoiceCommand() (string, []string) {
	if env := os.Getenv("NEWSDESK_VOICE_CMD"); env != "" {
		return env, nil
	}
	if c.Voice == nil {
		return "", nil
	}
	return c.Voice.Command, c.Voice.Args
}

func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "newsdesk", "config.yaml")
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

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url scheme must be http or https, got %q", u.Scheme)
	}

	switch cfg.DefaultSort {
	case "", "newest", "source", "title":
	default:
		return fmt.Errorf("unknown sort %q (valid: newest, source, title)", cfg.DefaultSort)
	}

	if cfg.RequestTimeout != "" {
		if _, err := time.ParseDuration(cfg.RequestTimeout); err != nil {
			return fmt.Errorf("invalid request_timeout: %w", err)
		}
	}
	return nil
}
