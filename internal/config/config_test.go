package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	t.Parallel()
	c, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, DefaultDBPath, c.Index.DB)
	assert.Equal(t, runtime.NumCPU(), c.Index.Workers)
	assert.True(t, c.FormatEnabled())
	assert.Empty(t, c.Path)
}

func TestLoad_File(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(`
log_level: debug
index:
  db: /tmp/custom.db
  workers: 2
discovery:
  ignore:
    - examples/
    - "*.generated.bzl"
format:
  enabled: false
`), 0o644))

	c, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "/tmp/custom.db", c.Index.DB)
	assert.Equal(t, 2, c.Index.Workers)
	assert.Equal(t, []string{"examples/", "*.generated.bzl"}, c.Discovery.Ignore)
	assert.False(t, c.FormatEnabled())
	assert.Equal(t, filepath.Join(root, FileName), c.Path)
}

func TestParse_EmptyDocument(t *testing.T) {
	t.Parallel()
	c, err := Parse("x.yaml", []byte("# nothing here\n"))
	require.NoError(t, err)
	assert.Equal(t, "info", c.LogLevel)
}

func TestParse_UnknownKey(t *testing.T) {
	t.Parallel()
	_, err := Parse("x.yaml", []byte("colour: blue\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x.yaml")
}

func TestParse_BadLogLevel(t *testing.T) {
	t.Parallel()
	_, err := Parse("x.yaml", []byte("log_level: shouty\n"))
	assert.ErrorContains(t, err, "log_level")
}

func TestDBPath(t *testing.T) {
	t.Parallel()
	c := Default()
	assert.Equal(t, filepath.Join("/ws", ".buildlens", "index.db"), c.DBPath("/ws"))

	c.Index.DB = "/abs/index.db"
	assert.Equal(t, "/abs/index.db", c.DBPath("/ws"))
}
