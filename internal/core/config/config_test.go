package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(dataDir, "does-not-exist.yml"), dataDir)
	require.NoError(t, err)

	assert.Equal(t, Default().Remote.URL, cfg.Remote.URL)
	assert.Equal(t, 15*time.Second, cfg.Sync.ProbeInterval)
	assert.True(t, cfg.Sync.ReplayOnStart)
	assert.Equal(t, dataDir, cfg.DataDir)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dataDir := t.TempDir()
	path := filepath.Join(dataDir, "skiff.yml")

	content := `
user: alice
remote:
  url: https://tasks.internal.example
  token: secret-token
  timeout: 3s
sync:
  probe_interval: 30s
  replay_on_start: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, dataDir)
	require.NoError(t, err)

	assert.Equal(t, "alice", cfg.User)
	assert.Equal(t, "https://tasks.internal.example", cfg.Remote.URL)
	assert.Equal(t, "secret-token", cfg.Remote.Token)
	assert.Equal(t, 3*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Sync.ProbeInterval)
	assert.False(t, cfg.Sync.ReplayOnStart)

	// Unset sections keep their defaults.
	assert.Equal(t, Default().Database, cfg.Database)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dataDir := t.TempDir()
	path := filepath.Join(dataDir, "skiff.yml")
	require.NoError(t, os.WriteFile(path, []byte("remote: [not a map"), 0o644))

	_, err := Load(path, dataDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty remote url",
			mutate:  func(c *Config) { c.Remote.URL = "" },
			wantErr: "remote.url",
		},
		{
			name:    "bad scheme",
			mutate:  func(c *Config) { c.Remote.URL = "ftp://tasks.example.com" },
			wantErr: "remote.url",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Remote.Timeout = 0 },
			wantErr: "remote.timeout",
		},
		{
			name:    "zero probe interval",
			mutate:  func(c *Config) { c.Sync.ProbeInterval = 0 },
			wantErr: "sync.probe_interval",
		},
		{
			name:    "zero max open conns",
			mutate:  func(c *Config) { c.Database.MaxOpenConns = 0 },
			wantErr: "database.max_open_conns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.DataDir = t.TempDir()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_DataDirIsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	cfg := Default()
	cfg.DataDir = file

	err := cfg.Validate()

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, err.Error(), "not a directory")
}
