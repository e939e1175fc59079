package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewConsoleLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(&buf, Options{Level: "warn", NoColor: true})
	require.NoError(t, err)
	defer closer.Close()

	logger.Info("hidden")
	logger.Warn("no items on page", "url", "https://example.com")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "no items on page")
	assert.Contains(t, out, "url=https://example.com")
}

func TestNewFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "sitescrape.log")

	logger, closer, err := New(&console, Options{Level: "info", File: path, NoColor: true})
	require.NoError(t, err)

	logger.With("site", "target").Debug("opening", "url", "https://www.target.com")
	require.NoError(t, closer.Close())

	assert.Empty(t, console.String(), "debug is below the console level")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "opening", entry["msg"])
	assert.Equal(t, "target", entry["site"])
	assert.Equal(t, "DEBUG", entry["level"])
}
