package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DirName is the per-user configuration directory under $HOME
	DirName = ".subcon"

	// EnvPrefix prefixes environment overrides, e.g. SUBCON_SERVER_URL
	EnvPrefix = "SUBCON"

	DefaultServerURL  = "https://candidate-002-powerofaum-module-sub.vercel.app"
	DefaultUserID     = "USER_001"
	DefaultTimeout    = 30 * time.Second
	DefaultMessageTTL = 5 * time.Second
)

// Config represents the application configuration
type Config struct {
	// API server URL
	ServerURL string

	// User ID prefilled in both console panels
	DefaultUserID string

	// Per-request timeout
	Timeout time.Duration

	// How long a status banner stays on screen
	MessageTTL time.Duration
}

// fileConfig is the on-disk shape; durations are stored as strings like "5s"
type fileConfig struct {
	ServerURL     string `json:"server_url"`
	DefaultUserID string `json:"default_user_id,omitempty"`
	Timeout       string `json:"timeout,omitempty"`
	MessageTTL    string `json:"message_ttl,omitempty"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		ServerURL:     DefaultServerURL,
		DefaultUserID: DefaultUserID,
		Timeout:       DefaultTimeout,
		MessageTTL:    DefaultMessageTTL,
	}
}

// Load loads the configuration from the given file path. A missing file
// yields the defaults; SUBCON_* environment variables override both.
func Load(path string) (*Config, error) {
	return load(path, true)
}

// LoadFile loads the configuration file alone, without environment
// overrides. Use it when the result is written back to disk.
func LoadFile(path string) (*Config, error) {
	return load(path, false)
}

func load(path string, withEnv bool) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if withEnv {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		v.AutomaticEnv()
	}

	v.SetDefault("server_url", DefaultServerURL)
	v.SetDefault("default_user_id", DefaultUserID)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("message_ttl", DefaultMessageTTL)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return Default(), fmt.Errorf("error reading config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Default(), err
	}

	cfg := &Config{
		ServerURL:     v.GetString("server_url"),
		DefaultUserID: v.GetString("default_user_id"),
		Timeout:       v.GetDuration("timeout"),
		MessageTTL:    v.GetDuration("message_ttl"),
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MessageTTL <= 0 {
		cfg.MessageTTL = DefaultMessageTTL
	}

	return cfg, nil
}

// Save saves the configuration to the given file path
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(fileConfig{
		ServerURL:     c.ServerURL,
		DefaultUserID: c.DefaultUserID,
		Timeout:       c.Timeout.String(),
		MessageTTL:    c.MessageTTL.String(),
	}, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Set updates a single setting by its command-line key
func (c *Config) Set(key, value string) error {
	switch key {
	case "server-url":
		if value == "" {
			return fmt.Errorf("server-url cannot be empty")
		}
		c.ServerURL = strings.TrimRight(value, "/")
	case "default-user":
		c.DefaultUserID = value
	case "timeout", "message-ttl":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
		if key == "timeout" {
			c.Timeout = d
		} else {
			c.MessageTTL = d
		}
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// Get returns a single setting by its command-line key
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "server-url":
		return c.ServerURL, nil
	case "default-user":
		return c.DefaultUserID, nil
	case "timeout":
		return c.Timeout.String(), nil
	case "message-ttl":
		return c.MessageTTL.String(), nil
	}
	return "", fmt.Errorf("unknown configuration key: %s", key)
}

// Keys lists the settable configuration keys
func Keys() []string {
	return []string{"server-url", "default-user", "timeout", "message-ttl"}
}

// GetGlobalConfigDir returns ~/.subcon
func GetGlobalConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}
	return filepath.Join(homeDir, DirName), nil
}

// GetGlobalConfigPath returns the path of the global config file
func GetGlobalConfigPath() (string, error) {
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadGlobalConfig loads the config file from the global config directory
func LoadGlobalConfig() (*Config, error) {
	path, err := GetGlobalConfigPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// LoadGlobalConfigFile loads the global config file without environment
// overrides
func LoadGlobalConfigFile() (*Config, error) {
	path, err := GetGlobalConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// SaveGlobalConfig writes cfg to the global config directory
func SaveGlobalConfig(cfg *Config) error {
	path, err := GetGlobalConfigPath()
	if err != nil {
		return err
	}
	return cfg.Save(path)
}
