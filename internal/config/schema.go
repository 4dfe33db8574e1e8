package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"nxfacts/internal/logger"
)

// Config is the root configuration structure
type Config struct {
	Version      int             `yaml:"version"`
	GatherSubset []string        `yaml:"gather_subset"`
	FactPrefix   string          `yaml:"fact_prefix"`
	Concurrency  int             `yaml:"concurrency"`
	Log          logger.Config   `yaml:"log"`
	Device       DeviceConfig    `yaml:"device"`
	Preflight    PreflightConfig `yaml:"preflight"`
	History      HistoryConfig   `yaml:"history"`
}

// DeviceConfig describes how to reach the switch. Secrets may also come from the
// environment (see EnvPassword, EnvPassphrase).
type DeviceConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	Username       string   `yaml:"username"`
	Password       string   `yaml:"password,omitempty"`
	PrivateKeyPath string   `yaml:"private_key_path,omitempty"`
	Passphrase     string   `yaml:"passphrase,omitempty"`
	KnownHostsPath string   `yaml:"known_hosts_path,omitempty"`
	ConnectTimeout Duration `yaml:"connect_timeout"`
	CommandTimeout Duration `yaml:"command_timeout"`
}

// PreflightConfig controls the reachability scan run before dialing
type PreflightConfig struct {
	Enabled bool     `yaml:"enabled"`
	Timeout Duration `yaml:"timeout"`
}

// HistoryConfig controls the snapshot store
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Duration wraps time.Duration for YAML. It accepts Go duration strings ("30s")
// or a bare integer number of seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", value.Line)
	}

	if value.ShortTag() == "!!int" {
		var secs int64
		if err := value.Decode(&secs); err != nil {
			return err
		}
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}

	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
