// Package config loads the application configuration from a YAML file
// and fills in sensible defaults for anything left unset.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Remote configures the connection to the task service.
type Remote struct {
	URL     string        `yaml:"url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// Sync configures connectivity probing and replay behavior.
type Sync struct {
	ProbeInterval time.Duration `yaml:"probe_interval"`
	ReplayOnStart bool          `yaml:"replay_on_start"`
}

// Database configures the local SQLite connection pool.
type Database struct {
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	BusyTimeout  time.Duration `yaml:"busy_timeout"`
}

// Config is the root application configuration.
type Config struct {
	User     string   `yaml:"user"`
	Remote   Remote   `yaml:"remote"`
	Sync     Sync     `yaml:"sync"`
	Database Database `yaml:"database"`

	// DataDir is resolved at startup from flags, never from the file.
	DataDir string `yaml:"-"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Remote: Remote{
			URL:     "https://tasks.example.com",
			Timeout: 10 * time.Second,
		},
		Sync: Sync{
			ProbeInterval: 15 * time.Second,
			ReplayOnStart: true,
		},
		Database: Database{
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			BusyTimeout:  5 * time.Second,
		},
	}
}

// Load reads the config file at path, layering it over the defaults.
// A missing file is not an error; the defaults are returned as-is.
func Load(path string, dataDir string) (Config, error) {
	cfg := Default()
	cfg.DataDir = dataDir

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.DataDir = dataDir
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}
