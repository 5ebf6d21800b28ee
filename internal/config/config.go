package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Device Device `yaml:"device"`
	ACME   ACME   `yaml:"acme"`
}

// Device holds the appliance connection settings and the certificate
// directory on the appliance filesystem
type Device struct {
	Address string `yaml:"address"`
	User    string `yaml:"user"`
	SSHKey  string `yaml:"ssh_key,omitempty"`
	CertDir string `yaml:"cert_dir"`
}

// ACME holds the acme.sh collaborator settings
type ACME struct {
	Script       string   `yaml:"script,omitempty"`        // path to acme.sh; PATH lookup when empty
	StorageRoots []string `yaml:"storage_roots,omitempty"` // searched before the default roots
	KeyLength    string   `yaml:"key_length"`              // e.g. ec-256, 4096
}

// configDir is the default config directory
const configDir = ".config/adcert"
const configFile = "config.yaml"

// New creates a new Config with default values
func New() *Config {
	return &Config{
		Device: Device{
			User:    "nsroot",
			CertDir: "/nsconfig/ssl",
		},
		ACME: ACME{
			KeyLength: "ec-256",
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDir), nil
}

// ConfigPath returns the config file path
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the config from disk
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	// If config doesn't exist, return default config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks that the settings required for device operations are set
func (c *Config) Validate() error {
	if c.Device.Address == "" {
		return fmt.Errorf("device.address is not configured (edit %s)", mustConfigPath())
	}
	if c.Device.User == "" {
		return fmt.Errorf("device.user is not configured")
	}
	if c.Device.CertDir == "" {
		return fmt.Errorf("device.cert_dir is not configured")
	}
	return nil
}

func mustConfigPath() string {
	path, err := ConfigPath()
	if err != nil {
		return "~/" + filepath.Join(configDir, configFile)
	}
	return path
}
