package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"Warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_TextFiltersByLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l, err := New("warn", FormatText, &buf)
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown", "uri", "file:///BUILD")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "timestamp=")
}

func TestNew_JSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l, err := New("debug", FormatJSON, &buf)
	require.NoError(t, err)

	l.Debug("parsed", "targets", 3)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "parsed", rec["msg"])
	assert.Equal(t, float64(3), rec["targets"])
	assert.Contains(t, rec, "timestamp")
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()
	_, err := New("info", "xml", nil)
	assert.Error(t, err)
	_, err = New("nope", FormatText, nil)
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	l := Discard()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}
