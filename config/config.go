// ABOUTME: Configuration loading for cleancontacts
// ABOUTME: Reads YAML config from the XDG config dir with env var overrides
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	// AppName names the XDG config and data directories.
	AppName = "cleancontacts"

	// ConfigFileName is where we store local config.
	ConfigFileName = "config.yaml"

	// DefaultRedirectURL receives the Google OAuth callback.
	DefaultRedirectURL = "http://localhost:8080/oauth/callback"
)

// Config holds user settings.
type Config struct {
	// DBPath is the SQLite contact store (default: ~/.local/share/cleancontacts/contacts.db)
	DBPath string `yaml:"db_path,omitempty"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level,omitempty"`

	Google GoogleConfig `yaml:"google,omitempty"`
}

// GoogleConfig holds OAuth client settings for the People API importer.
type GoogleConfig struct {
	ClientID     string `yaml:"client_id,omitempty"`
	ClientSecret string `yaml:"client_secret,omitempty"`
	RedirectURL  string `yaml:"redirect_url,omitempty"`
}

// DefaultConfig returns a new config with sensible defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// DefaultPath returns the XDG path of the config file.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, ConfigFileName)
}

// DefaultDBPath returns the XDG path of the contact store.
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, AppName, "contacts.db")
}

// Load reads config from path (DefaultPath when empty). A missing file yields
// defaults. Environment variables override file values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DBPath == "" {
		c.DBPath = DefaultDBPath()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Google.RedirectURL == "" {
		c.Google.RedirectURL = DefaultRedirectURL
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CLEANCONTACTS_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("CLEANCONTACTS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		c.Google.ClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		c.Google.ClientSecret = v
	}
}

// Save persists the config to path (DefaultPath when empty).
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
