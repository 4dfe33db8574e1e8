package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath is the environment variable for explicit config path
	EnvConfigPath = "NXFACTS_CONFIG"
	// EnvPassword overrides device.password
	EnvPassword = "NXFACTS_PASSWORD"
	// EnvPassphrase overrides device.passphrase
	EnvPassphrase = "NXFACTS_PASSPHRASE"
	// ConfigFileName is the default config file name
	ConfigFileName = "nxfacts.yaml"
	// ConfigDirName is the config directory name under XDG
	ConfigDirName = "nxfacts"
)

// FindConfigPath searches for config file in priority order:
// 1. $NXFACTS_CONFIG (explicit path)
// 2. ./nxfacts.yaml (working directory)
// 3. $XDG_CONFIG_HOME/nxfacts/config.yaml
// 4. ~/.config/nxfacts/config.yaml
// 5. /etc/nxfacts/config.yaml
//
// Returns empty string if no config file found
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" && fileExists(path) {
		return path
	}

	if fileExists(ConfigFileName) {
		if abs, err := filepath.Abs(ConfigFileName); err == nil {
			return abs
		}
		return ConfigFileName
	}

	for _, path := range userConfigPaths() {
		if fileExists(path) {
			return path
		}
	}

	systemPath := filepath.Join("/etc", ConfigDirName, "config.yaml")
	if fileExists(systemPath) {
		return systemPath
	}

	return ""
}

// DefaultConfigPath returns the preferred location for a new config file
func DefaultConfigPath() string {
	if paths := userConfigPaths(); len(paths) > 0 {
		return paths[0]
	}
	return ConfigFileName
}

func userConfigPaths() []string {
	var paths []string
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}
	return paths
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0o755)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
