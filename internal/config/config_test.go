package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	src := t.TempDir()
	path := writeConfig(t, `
[library]
sources = ["`+src+`"]
force = ["Show A"]
workers = 2

[log]
level = "debug"
format = "json"

[history]
path = "/tmp/history.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{src}, cfg.Library.Sources)
	assert.Equal(t, []string{"Show A"}, cfg.Library.Force)
	assert.Equal(t, 2, cfg.Library.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.History.Enabled, "history defaults to enabled")
	assert.Equal(t, "/tmp/history.db", cfg.History.Path)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	path := writeConfig(t, "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Library.Workers)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "/data/dantalian/history.db", cfg.History.Path)
}

func TestLoad_HistoryDisabled(t *testing.T) {
	path := writeConfig(t, `
[history]
enabled = false
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.History.Enabled)
}

func TestLoad_EnvSubstitution(t *testing.T) {
	src := t.TempDir()
	t.Setenv("DANTALIAN_TEST_SOURCE", src)
	path := writeConfig(t, `
[library]
sources = ["${DANTALIAN_TEST_SOURCE}"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{src}, cfg.Library.Sources)
}

func TestLoad_MissingEnvVar(t *testing.T) {
	path := writeConfig(t, `
[library]
sources = ["${DANTALIAN_TEST_NONEXISTENT_SOURCE}"]
`)

	_, err := Load(path)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"DANTALIAN_TEST_NONEXISTENT_SOURCE"}, cfgErr.Missing)
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeConfig(t, `
[library]
sources = ["/nonexistent/dantalian/source"]
workers = -1

[log]
level = "verbose"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "library.sources[0]")
	assert.Contains(t, err.Error(), "library.workers")
	assert.Contains(t, err.Error(), "log.level")
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeConfig(t, "[library\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoad_FileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Library.Sources)
	assert.Equal(t, 4, cfg.Library.Workers)
	assert.True(t, cfg.History.Enabled)
	assert.NotEmpty(t, cfg.History.Path)
	assert.Empty(t, cfg.Validate())
}

func TestValidate_SourceIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	cfg := Default()
	cfg.Library.Sources = []string{file, ""}
	errs := cfg.Validate()
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "is not a directory")
	assert.Contains(t, errs[1], "empty path")
}
