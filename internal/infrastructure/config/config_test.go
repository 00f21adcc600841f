package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, filepath.Join(".lingo", "lingo.db"), cfg.SQLite.Path)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 100, cfg.Branch.CopyBatchSize)
	require.NoError(t, cfg.Validate())
}

func TestConfigDir(t *testing.T) {
	result := ConfigDir("/home/user/project")
	assert.Equal(t, "/home/user/project/.lingo", result)
}

func TestConfigFilePath(t *testing.T) {
	result := ConfigFilePath("/home/user/project")
	assert.Equal(t, "/home/user/project/.lingo/config.yaml", result)
}

func TestDatabasePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "relative path", path: ".lingo/lingo.db", expected: "/srv/app/.lingo/lingo.db"},
		{name: "absolute path", path: "/var/lib/lingo.db", expected: "/var/lib/lingo.db"},
		{name: "in-memory", path: ":memory:", expected: ":memory:"},
		{name: "empty", path: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{SQLite: SQLiteConfig{Path: tt.path}}
			assert.Equal(t, tt.expected, cfg.DatabasePath("/srv/app"))
		})
	}
}

func TestLoad_DefaultFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(ConfigDir(dir), 0755))
	content := "server:\n  addr: \":9090\"\n  write_timeout: 2m\nbranch:\n  copy_batch_size: 500\n"
	require.NoError(t, os.WriteFile(ConfigFilePath(dir), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 2*time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 500, cfg.Branch.CopyBatchSize)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))

	t.Setenv("LINGO_DB_PATH", "/tmp/override.db")
	t.Setenv("LINGO_ADDR", "127.0.0.1:7000")
	t.Setenv("LINGO_LOG_LEVEL", "debug")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", cfg.SQLite.Path)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{name: "invalid yaml", content: "server: [", errMsg: "parsing config file"},
		{name: "invalid log level", content: "log:\n  level: loud\n", errMsg: "invalid log level"},
		{name: "invalid log format", content: "log:\n  format: xml\n", errMsg: "invalid log format"},
		{name: "negative batch size", content: "branch:\n  copy_batch_size: -1\n", errMsg: "copy_batch_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.MkdirAll(ConfigDir(dir), 0755))
			require.NoError(t, os.WriteFile(ConfigFilePath(dir), []byte(tt.content), 0644))

			_, err := Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lingo init")
}

func TestWriteDefault_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))
	assert.True(t, Exists(dir))

	err := WriteDefault(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestWrite_RoundTripsDurations(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Server.ReadTimeout = 3 * time.Second

	require.NoError(t, Write(dir, cfg))

	data, err := os.ReadFile(ConfigFilePath(dir))
	require.NoError(t, err)
	assert.Contains(t, string(data), "read_timeout: 3s")

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestWrite_RejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Log.Level = "loud"

	err := Write(dir, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
	assert.False(t, Exists(dir))
}

func TestWrite_ReplacesExistingConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))

	cfg := Default()
	cfg.Server.Addr = ":9090"
	require.NoError(t, Write(dir, cfg))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ":9090", loaded.Server.Addr)

	entries, err := os.ReadDir(ConfigDir(dir))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, DefaultConfigFile, entries[0].Name())
}

func TestDefaultConfigYAML_DecodesToDefault(t *testing.T) {
	cfg, err := decode([]byte(DefaultConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
