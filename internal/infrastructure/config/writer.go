package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigYAML is the default configuration content. It decodes to Default().
const DefaultConfigYAML = `# Lingo-Core Configuration

sqlite:
  path: .lingo/lingo.db
  # (or set LINGO_DB_PATH env var)

server:
  addr: ":8080"
  # (or set LINGO_ADDR env var)
  read_timeout: 15s
  write_timeout: 60s

log:
  level: info
  # (or set LINGO_LOG_LEVEL env var)
  format: text

branch:
  copy_batch_size: 100
`

// WriteDefault creates the .lingo directory and writes the commented default
// config. An existing config is never overwritten.
func WriteDefault(basePath string) error {
	if Exists(basePath) {
		return fmt.Errorf("config file already exists: %s", ConfigFilePath(basePath))
	}
	return writeConfig(basePath, []byte(DefaultConfigYAML))
}

// Write replaces the config file with cfg. Invalid configs are rejected
// before anything touches the disk.
func Write(basePath string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("refusing to write config: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return writeConfig(basePath, data)
}

// writeConfig checks that data loads as a valid config and swaps it in
// through a temporary file, so readers never see a partial config.
func writeConfig(basePath string, data []byte) error {
	cfg, err := decode(data)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	dir := ConfigDir(basePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, DefaultConfigFile+".*")
	if err != nil {
		return fmt.Errorf("creating temporary config file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing config file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("setting config file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	if err := os.Rename(tmp.Name(), ConfigFilePath(basePath)); err != nil {
		return fmt.Errorf("replacing config file: %w", err)
	}
	return nil
}

// Exists checks if a lingo config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}
