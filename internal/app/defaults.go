package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - BUGTRACKER_CONFIG_PATH: config file location (default: ~/.config/bugtracker.toml)
//   - BUGTRACKER_HOME: base directory for bugtracker data (default: ~/.local/share/bugtracker)
func GetDefaults() (map[string]string, error) {
	configPath, err := envOrHome("BUGTRACKER_CONFIG_PATH", ".config", "bugtracker.toml")
	if err != nil {
		return nil, err
	}

	baseDir, err := envOrHome("BUGTRACKER_HOME", ".local", "share", "bugtracker")
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// envOrHome returns $key if set, otherwise the path under the user's home directory.
func envOrHome(key string, elem ...string) (string, error) {
	if path := os.Getenv(key); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(append([]string{homeDir}, elem...)...), nil
}
