package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/hay-kot/criterio"
)

// Validate checks the structural configuration fields.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("remote.url", c.Remote.URL, remoteURLValid),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		c.validateDurations(),
		c.validateDatabase(),
	)
}

func (c *Config) validateDurations() error {
	var errs criterio.FieldErrorsBuilder

	if c.Remote.Timeout <= 0 {
		errs = errs.Append("remote.timeout", fmt.Errorf("must be positive, got %s", c.Remote.Timeout))
	}
	if c.Sync.ProbeInterval <= 0 {
		errs = errs.Append("sync.probe_interval", fmt.Errorf("must be positive, got %s", c.Sync.ProbeInterval))
	}

	return errs.ToError()
}

func (c *Config) validateDatabase() error {
	var errs criterio.FieldErrorsBuilder

	if c.Database.MaxOpenConns < 1 {
		errs = errs.Append("database.max_open_conns", fmt.Errorf("must be at least 1"))
	}
	if c.Database.MaxIdleConns < 1 {
		errs = errs.Append("database.max_idle_conns", fmt.Errorf("must be at least 1"))
	}
	if c.Database.BusyTimeout < 0 {
		errs = errs.Append("database.busy_timeout", fmt.Errorf("cannot be negative"))
	}

	return errs.ToError()
}

func remoteURLValid(raw string) error {
	if raw == "" {
		return fmt.Errorf("cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
