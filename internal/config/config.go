package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/La-Salida/hypnothera-community-manager/internal/community"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Bridge names the external helper command that owns browser mechanics.
type Bridge struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
}

type Config struct {
	Community  string `yaml:"community"`
	BaseURL    string `yaml:"base_url,omitempty"`
	ReplyQuota int    `yaml:"reply_quota,omitempty"`
	FetchLimit int    `yaml:"fetch_limit,omitempty"`
	Catalog    string `yaml:"catalog,omitempty"`
	LogFile    string `yaml:"log_file,omitempty"`
	Bridge     Bridge `yaml:"bridge,omitempty"`
}

func (c *Config) GetBaseURL() string {
	if c.BaseURL == "" {
		return "https://www.reddit.com"
	}
	return c.BaseURL
}

// GetReplyQuota returns the per-run reply cap, defaulting to 3.
func (c *Config) GetReplyQuota() int {
	if c.ReplyQuota <= 0 {
		return 3
	}
	return c.ReplyQuota
}

func (c *Config) GetFetchLimit() int {
	if c.FetchLimit <= 0 {
		return 50
	}
	return c.FetchLimit
}

// Credentials resolves the account credentials from the environment. The
// config file never holds secrets.
func Credentials() community.Credentials {
	return community.Credentials{
		Username: os.Getenv("REDDIT_USERNAME"),
		Password: os.Getenv("REDDIT_PASSWORD"),
		Proxy:    os.Getenv("PACKETSTREAM_PROXY"),
	}
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "communitymgr", "config.yaml")
}

func StatePath() string {
	return filepath.Join(xdg.DataHome, "communitymgr", "state.db")
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
	if cfg.Community == "" {
		return fmt.Errorf("config: community is required")
	}
	if cfg.ReplyQuota < 0 {
		return fmt.Errorf("config: reply_quota must not be negative")
	}
	if cfg.FetchLimit < 0 {
		return fmt.Errorf("config: fetch_limit must not be negative")
	}
	if cfg.Catalog != "" {
		if _, err := os.Stat(cfg.Catalog); err != nil {
			return fmt.Errorf("config: catalog %q: %w", cfg.Catalog, err)
		}
	}
	return nil
}
