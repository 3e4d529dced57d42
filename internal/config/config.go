// Package config loads the optional .buildlens.yaml file at a workspace root.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/jward/buildlens/internal/logging"
)

// FileName is the config file looked up at the workspace root.
const FileName = ".buildlens.yaml"

// DefaultDBPath is the index location relative to the workspace root.
var DefaultDBPath = filepath.Join(".buildlens", "index.db")

type (
	// Config is the full buildlens configuration.
	Config struct {
		LogLevel  string    `yaml:"log_level"`
		Index     Index     `yaml:"index"`
		Discovery Discovery `yaml:"discovery"`
		Format    Format    `yaml:"format"`

		// Path is the file the config was loaded from; empty for defaults.
		Path string `yaml:"-"`
	}

	// Index configures the SQLite target index.
	Index struct {
		DB      string `yaml:"db"`
		Workers int    `yaml:"workers"`
	}

	// Discovery configures build-file discovery.
	Discovery struct {
		Ignore []string `yaml:"ignore"`
	}

	// Format configures the formatter.
	Format struct {
		Enabled *bool `yaml:"enabled"`
	}
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.Init()
	return c
}

// Init fills unset fields with defaults.
func (c *Config) Init() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Index.DB == "" {
		c.Index.DB = DefaultDBPath
	}
	if c.Index.Workers <= 0 {
		c.Index.Workers = runtime.NumCPU()
	}
	if c.Format.Enabled == nil {
		enabled := true
		c.Format.Enabled = &enabled
	}
}

// Validate checks field values.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	return nil
}

// FormatEnabled reports whether the fmt command may rewrite files.
func (c *Config) FormatEnabled() bool {
	return c.Format.Enabled == nil || *c.Format.Enabled
}

// DBPath returns the absolute index path for a workspace root.
func (c *Config) DBPath(root string) string {
	if filepath.IsAbs(c.Index.DB) {
		return c.Index.DB
	}
	return filepath.Join(root, c.Index.DB)
}

// Load reads root/.buildlens.yaml. A missing file yields Default().
func Load(root string) (*Config, error) {
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes a config document. Unknown keys are rejected.
func Parse(path string, data []byte) (*Config, error) {
	c := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	c.Path = path
	c.Init()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
