// Package config loads tool-level configuration for Keyforge.
//
// Configuration covers how the tool reaches the libvirt daemon and where
// it keeps local state (keyring service, audit log, output defaults).
// Secret definitions are not configuration; those are v1alpha1 Secret
// manifests handled by the loader package.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jbweber/keyforge/internal/valuesource"
)

// Default values applied by Normalize.
const (
	DefaultSocket         = "/var/run/libvirt/libvirt-sock"
	DefaultTimeoutSeconds = 5
	DefaultOutputFormat   = "table"
	DefaultKeyringService = valuesource.DefaultKeyringService
)

// Config represents the complete tool configuration.
type Config struct {
	Connection ConnectionConfig `yaml:"connection,omitempty"`
	Keyring    KeyringConfig    `yaml:"keyring,omitempty"`
	Output     OutputConfig     `yaml:"output,omitempty"`
	Audit      AuditConfig      `yaml:"audit,omitempty"`
}

// ConnectionConfig controls how the tool reaches the libvirt daemon.
type ConnectionConfig struct {
	Socket         string `yaml:"socket,omitempty"`          // Libvirt unix socket path (default: "/var/run/libvirt/libvirt-sock")
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"` // Dial timeout (default: 5)
}

// KeyringConfig controls OS keyring integration.
type KeyringConfig struct {
	Service string `yaml:"service,omitempty"` // Keyring service name (default: "keyforge")
}

// OutputConfig sets default output behavior for commands.
type OutputConfig struct {
	Format    string `yaml:"format,omitempty"` // table, json, or yaml
	NoHeaders bool   `yaml:"no_headers,omitempty"`
}

// AuditConfig controls the append-only audit log.
type AuditConfig struct {
	LogPath string `yaml:"log_path,omitempty"` // Empty disables auditing
}

// Validate reports structural problems in the configuration. It does
// not probe the hypervisor or the keyring.
func (c *Config) Validate() error {
	if err := c.Connection.Validate(); err != nil {
		return fmt.Errorf("connection: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}

// Validate checks connection configuration.
func (c *ConnectionConfig) Validate() error {
	if c.Socket != "" && !filepath.IsAbs(c.Socket) {
		return fmt.Errorf("socket must be an absolute path, got %q", c.Socket)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must be >= 0, got %d", c.TimeoutSeconds)
	}
	return nil
}

// Validate checks output configuration.
func (o *OutputConfig) Validate() error {
	switch o.Format {
	case "", "table", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("format must be one of table, json, yaml, got %q", o.Format)
	}
}

// Timeout returns the dial timeout as a duration.
func (c *ConnectionConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Normalize sanitizes user input to consistent formats and fills in
// defaults. This is called automatically by LoadFromFile before validation.
func (c *Config) Normalize() {
	c.Connection.Socket = strings.TrimSpace(c.Connection.Socket)
	if c.Connection.Socket == "" {
		c.Connection.Socket = DefaultSocket
	}
	if c.Connection.TimeoutSeconds == 0 {
		c.Connection.TimeoutSeconds = DefaultTimeoutSeconds
	}

	// Keyring service names are case-sensitive; only trim
	c.Keyring.Service = strings.TrimSpace(c.Keyring.Service)
	if c.Keyring.Service == "" {
		c.Keyring.Service = DefaultKeyringService
	}

	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = DefaultOutputFormat
	}

	c.Audit.LogPath = strings.TrimSpace(c.Audit.LogPath)
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	c := &Config{}
	c.Normalize()
	return c
}

// DefaultPath returns the default config file location,
// <user config dir>/keyforge/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, "keyforge", "config.yaml"), nil
}

// LoadFromFile loads a tool configuration from a YAML file. The result
// is normalized and validated.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadOrDefault loads the config at path, or from the default location
// when path is empty. A missing file at the default location is not an
// error; built-in defaults are returned instead. An explicitly named
// file must exist.
func LoadOrDefault(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = defaultPath
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return Default(), nil
	}

	return LoadFromFile(path)
}
