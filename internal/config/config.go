// Package config loads the plura configuration file and applies defaults
// and environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thenoetrevino/plura/internal/session"
)

// DefaultSubAccount is the sub-account used when the identity names none
const DefaultSubAccount = "default"

// Config represents the application configuration
type Config struct {
	DatabasePath  string        `yaml:"database_path"`
	SocketPath    string        `yaml:"socket_path"`
	LogLevel      string        `yaml:"log_level"`
	EventDebounce time.Duration `yaml:"event_debounce"`
	Identity      Identity      `yaml:"identity"`
	KeyMappings   KeyMappings   `yaml:"key_mappings"`
	Theme         Theme         `yaml:"theme"`
}

// Identity is the user the identity provider would otherwise supply
type Identity struct {
	UserID      string   `yaml:"user_id"`
	Role        string   `yaml:"role"`
	SubAccounts []string `yaml:"subaccounts"`
	// SubAccount is the sub-account commands act on when none is given
	SubAccount string `yaml:"subaccount"`
}

// Session builds the session for this identity
func (i Identity) Session() (*session.Session, error) {
	role, err := session.ParseRole(i.Role)
	if err != nil {
		return nil, err
	}
	return session.New(i.UserID, role, i.SubAccounts), nil
}

// Load loads config from the user's config directory.
// Returns the default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		cfg := Default()
		cfg.applyEnv()
		return cfg, nil
	}
	return LoadFrom(configPath)
}

// Default returns the configuration used when no file exists, without
// environment overrides.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadFrom loads the config file at path, applying defaults and
// environment overrides. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if _, err := session.ParseRole(cfg.Identity.Role); err != nil {
		return nil, fmt.Errorf("invalid identity: %w", err)
	}
	return &cfg, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// DataDir returns ~/.plura, where the database, socket and logs live
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".plura"), nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "plura", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "plura", "config.yaml"), nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	dataDir, err := DataDir()
	if err != nil {
		dataDir = ".plura"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(dataDir, "plura.db")
	}
	if c.SocketPath == "" {
		c.SocketPath = filepath.Join(dataDir, "plura.sock")
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.EventDebounce <= 0 {
		c.EventDebounce = 100 * time.Millisecond
	}
	if c.Identity.Role == "" {
		c.Identity.Role = string(session.RoleAgencyOwner)
	}
	if c.Identity.SubAccount == "" {
		if len(c.Identity.SubAccounts) > 0 {
			c.Identity.SubAccount = c.Identity.SubAccounts[0]
		} else {
			c.Identity.SubAccount = DefaultSubAccount
		}
	}
	c.KeyMappings.applyDefaults()
	c.Theme.ApplyDefaults()
}

// applyEnv lets PLURA_DB_PATH, PLURA_SOCKET_PATH and PLURA_LOG_LEVEL
// override the file
func (c *Config) applyEnv() {
	if v := os.Getenv("PLURA_DB_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("PLURA_SOCKET_PATH"); v != "" {
		c.SocketPath = v
	}
	if v := os.Getenv("PLURA_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}
