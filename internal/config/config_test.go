package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grider.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Layout.DefaultWidth)
	assert.True(t, cfg.Editing.MoveAfterEnter)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
layout:
  default_width: 10
editing:
  move_after_enter: false
log:
  file: /tmp/grider.log
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Layout.DefaultWidth)
	assert.Equal(t, 4, cfg.Layout.LeftGutter)
	assert.False(t, cfg.Editing.MoveAfterEnter)
	assert.True(t, cfg.Editing.EnterStartsEdit)
	assert.Equal(t, "/tmp/grider.log", cfg.Log.File)
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(writeConfig(t, "layout:\n  default_width: 2\n"))
	assert.ErrorContains(t, err, "default_width")

	_, err = Load(writeConfig(t, "log:\n  level: loud\n"))
	assert.ErrorContains(t, err, "unknown log level")

	_, err = Load(writeConfig(t, "layout: [1, 2\n"))
	assert.ErrorContains(t, err, "parse config")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
