package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/dantalian/internal/episode"
)

func writeSubject(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SubjectFileName), []byte(content), 0644))
	return dir
}

func TestLoadSubject(t *testing.T) {
	dir := writeSubject(t, `
subject_id = 12345
episode_re = 'ep(?P<ep>\d+)'
episode_offset = -12
normalize_names = true
`)

	s, err := LoadSubject(dir)
	require.NoError(t, err)

	assert.Equal(t, uint32(12345), s.SubjectID)
	assert.Equal(t, `ep(?P<ep>\d+)`, s.EpisodePattern().String())
	assert.Equal(t, -12, s.EpisodeOffset)
	assert.True(t, s.NormalizeNames)
}

func TestLoadSubject_DefaultPattern(t *testing.T) {
	dir := writeSubject(t, "subject_id = 1\n")

	s, err := LoadSubject(dir)
	require.NoError(t, err)
	assert.Equal(t, episode.DefaultPattern, s.EpisodePattern().String())
	assert.Zero(t, s.EpisodeOffset)
}

func TestLoadSubject_Missing(t *testing.T) {
	_, err := LoadSubject(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSubjectConfig)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadSubject_MissingSubjectID(t *testing.T) {
	dir := writeSubject(t, "episode_offset = 1\n")

	_, err := LoadSubject(dir)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Errors, "subject_id: required")
}

func TestLoadSubject_UnknownKey(t *testing.T) {
	dir := writeSubject(t, "subject_id = 1\nepisode_regex = 'x'\n")

	_, err := LoadSubject(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "episode_regex: unknown key")
}

func TestLoadSubject_PatternWithoutEpisodeGroup(t *testing.T) {
	dir := writeSubject(t, "subject_id = 1\nepisode_re = '\\d+'\n")

	_, err := LoadSubject(dir)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.ErrorIs(t, err, episode.ErrMissingEpisodeGroup)
	require.Len(t, cfgErr.Errors, 1)
	assert.Contains(t, cfgErr.Errors[0], "episode_re:")
}

func TestLoadSubject_InvalidPattern(t *testing.T) {
	dir := writeSubject(t, "subject_id = 1\nepisode_re = '(?P<ep>\\d+'\n")

	_, err := LoadSubject(dir)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	require.Len(t, cfgErr.Errors, 1)
	assert.Contains(t, cfgErr.Errors[0], "episode_re: compile episode pattern")
}

func TestLoadSubject_ReportsAllProblems(t *testing.T) {
	dir := writeSubject(t, "episode_re = '\\d+'\nepisode_regex = 'x'\n")

	_, err := LoadSubject(dir)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Len(t, cfgErr.Errors, 3)
	assert.Contains(t, cfgErr.Errors, "subject_id: required")
	assert.Contains(t, cfgErr.Errors, "episode_regex: unknown key")
	assert.ErrorIs(t, err, episode.ErrMissingEpisodeGroup)
}

func TestLoadSubject_NegativeSubjectID(t *testing.T) {
	dir := writeSubject(t, "subject_id = -1\n")

	_, err := LoadSubject(dir)
	assert.Error(t, err)
}

func TestSubject_EpisodePatternFallback(t *testing.T) {
	s := &Subject{SubjectID: 1}
	assert.Equal(t, episode.DefaultPattern, s.EpisodePattern().String())
}
