package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/dantalian/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), "parseLogLevel(%q)", tt.in)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	withGlobals(t, "", false)

	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogConfig{Level: "warn", Format: "json"})
	logger.Info("hidden")
	logger.Warn("shown", "dir", "/media/Show")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "/media/Show", rec["dir"])
}

func TestNewLogger_FlagOverridesLevel(t *testing.T) {
	withGlobals(t, "", false)
	logLevel = "debug"

	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogConfig{Level: "error", Format: "text"})
	logger.Debug("planning")
	assert.Contains(t, buf.String(), "msg=planning")
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.toml", "[library]\nsources = [\""+filepath.ToSlash(dir)+"\"]\nworkers = 2\n")
	withGlobals(t, cfgPath, false)

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.ToSlash(dir)}, cfg.Library.Sources)
	assert.Equal(t, 2, cfg.Library.Workers)
}

func TestLoadConfig_FallsBackToDefaults(t *testing.T) {
	withGlobals(t, "", false)
	t.Setenv("DANTALIAN_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestRunInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dantalian", "config.toml")

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, runInitCmd(cmd, []string{path}))
	assert.Contains(t, out.String(), "Wrote "+path)

	err := runInitCmd(cmd, []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRunInitCmd_WrittenConfigLoads(t *testing.T) {
	src := t.TempDir()
	t.Setenv("DANTALIAN_SOURCE", src)
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	require.NoError(t, runInitCmd(cmd, []string{path}))

	withGlobals(t, path, false)
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{src}, cfg.Library.Sources)
}
