// Package config provides configuration management for nxfacts.
//
// Config file locations (priority order):
//  1. $NXFACTS_CONFIG
//  2. ./nxfacts.yaml
//  3. $XDG_CONFIG_HOME/nxfacts/config.yaml
//  4. ~/.config/nxfacts/config.yaml
//  5. /etc/nxfacts/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"nxfacts/internal/domain"
	"nxfacts/internal/facts"
	"nxfacts/internal/logger"
)

const (
	currentVersion        = 1
	defaultSSHPort        = 22
	defaultConcurrency    = 4
	defaultConnectTimeout = 10 * time.Second
	defaultCommandTimeout = 30 * time.Second
	defaultPreflightWait  = 15 * time.Second
	defaultHistoryPath    = "./nxfacts.db"
)

var (
	// ErrInvalidConfig wraps every validation failure
	ErrInvalidConfig = errors.New("invalid config")
	// ErrNoDevice is returned when a live gather has no host or username
	ErrNoDevice = errors.New("device host and username are required")
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return &cfg, path, nil
}

// Save writes config to the specified path. The file may hold a password, so it is
// only readable by the owner.
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o600)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{
		Version:      currentVersion,
		GatherSubset: defaultGatherSubset(),
		FactPrefix:   domain.DefaultFactPrefix,
		Log:          logger.DefaultConfig(),
	}
	cfg.applyDefaults()
	return cfg
}

func defaultGatherSubset() []string {
	return append([]string(nil), facts.DefaultGatherSubset...)
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = currentVersion
	}
	if c.GatherSubset == nil {
		c.GatherSubset = defaultGatherSubset()
	}
	if c.FactPrefix == "" {
		c.FactPrefix = domain.DefaultFactPrefix
	}
	if c.Concurrency == 0 {
		c.Concurrency = defaultConcurrency
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stderr"
	}
	if c.Device.Port == 0 {
		c.Device.Port = defaultSSHPort
	}
	if c.Device.ConnectTimeout == 0 {
		c.Device.ConnectTimeout = Duration(defaultConnectTimeout)
	}
	if c.Device.CommandTimeout == 0 {
		c.Device.CommandTimeout = Duration(defaultCommandTimeout)
	}
	if c.Preflight.Timeout == 0 {
		c.Preflight.Timeout = Duration(defaultPreflightWait)
	}
	if c.History.Path == "" {
		c.History.Path = defaultHistoryPath
	}
}

// applyEnv lets secrets stay out of the config file
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvPassword); v != "" {
		c.Device.Password = v
	}
	if v := os.Getenv(EnvPassphrase); v != "" {
		c.Device.Passphrase = v
	}
}

// Validate checks values that defaults cannot repair
func (c *Config) Validate() error {
	var errs []error
	if c.Version != currentVersion {
		errs = append(errs, fmt.Errorf("unsupported version %d", c.Version))
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must be positive, got %d", c.Concurrency))
	}
	if c.Device.Port < 1 || c.Device.Port > 65535 {
		errs = append(errs, fmt.Errorf("device.port out of range: %d", c.Device.Port))
	}
	if c.Device.ConnectTimeout < 0 || c.Device.CommandTimeout < 0 || c.Preflight.Timeout < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// ValidateDevice checks that a live gather has enough to connect
func (c *Config) ValidateDevice() error {
	if c.Device.Host == "" || c.Device.Username == "" {
		return ErrNoDevice
	}
	return nil
}

// Credential builds device login material, reading the private key when one is
// configured.
func (c *Config) Credential() (domain.Credential, error) {
	cred := domain.Credential{
		Username:   c.Device.Username,
		Password:   c.Device.Password,
		Passphrase: c.Device.Passphrase,
	}
	if c.Device.PrivateKeyPath != "" {
		key, err := os.ReadFile(c.Device.PrivateKeyPath)
		if err != nil {
			return domain.Credential{}, fmt.Errorf("read private key: %w", err)
		}
		cred.PrivateKey = key
	}
	return cred, nil
}

// Summary returns a one-line description without secrets
func (c *Config) Summary() string {
	target := "no device"
	if c.Device.Host != "" {
		target = fmt.Sprintf("%s@%s:%d", c.Device.Username, c.Device.Host, c.Device.Port)
	}
	return fmt.Sprintf("Device: %s, Subsets: %v, Prefix: %q, Concurrency: %d, History: %t",
		target, c.GatherSubset, c.FactPrefix, c.Concurrency, c.History.Enabled)
}
