package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/natefinch/atomic"
)

const (
	// DefaultAddress is where the server listens unless configured otherwise.
	DefaultAddress = ":3000"

	// DefaultShutdownTimeout bounds how long in-flight requests get to finish.
	DefaultShutdownTimeout = "10s"
)

// Config represents the main configuration for bugtracker.
type Config struct {
	InstanceID string       `toml:"instance_id"`
	BaseDir    string       `toml:"base_dir"`
	LogDir     string       `toml:"log_dir"`   // empty logs to stderr only
	LogLevel   string       `toml:"log_level"` // debug, info, warn or error
	Server     ServerConfig `toml:"server"`
	Store      StoreConfig  `toml:"store"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Address         string `toml:"address"`
	ShutdownTimeout string `toml:"shutdown_timeout"` // Go duration, e.g. "10s"
}

// ShutdownGrace parses ShutdownTimeout, falling back to DefaultShutdownTimeout when unset.
func (s ServerConfig) ShutdownGrace() (time.Duration, error) {
	raw := s.ShutdownTimeout
	if raw == "" {
		raw = DefaultShutdownTimeout
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid shutdown_timeout %q: %w", raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("shutdown_timeout must be positive, got %s", raw)
	}
	return d, nil
}

// StoreConfig selects the bug store backend.
// Both backends keep records in process memory only.
type StoreConfig struct {
	Type string `toml:"type"` // "memory" (default) or "sqlite"
}

// NewConfig creates a new Config with the provided values and defaults for the rest.
func NewConfig(instanceID, baseDir string) *Config {
	return &Config{
		InstanceID: instanceID,
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
		LogLevel:   "info",
		Server: ServerConfig{
			Address:         DefaultAddress,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Store: StoreConfig{Type: "memory"},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// ReadFromFileOrDefault reads the Config at path on top of fallback: keys the
// file sets win, everything else keeps the fallback value. fallback itself is
// returned unchanged when no file exists. Any other read or decode failure is
// an error.
func ReadFromFileOrDefault(path string, fallback *Config) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return fallback, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg := *fallback
	if _, err := toml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("reading config from %s: failed to decode config: %w", path, err)
	}
	return &cfg, nil
}

// writeToFile atomically replaces path with the encoded Config.
func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	m := &Manager{}
	if err := m.Write(&buf, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
