package config

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ConfigError
		want string
	}{
		{
			name: "nothing collected",
			err:  &ConfigError{Path: "/etc/dantalian/config.toml"},
			want: "",
		},
		{
			name: "missing env",
			err:  &ConfigError{Path: "config.toml", Missing: []string{"DANTALIAN_SOURCE"}},
			want: "config.toml: 1 config problem\n  env DANTALIAN_SOURCE is not set",
		},
		{
			name: "missing and invalid",
			err: &ConfigError{
				Path:    "config.toml",
				Missing: []string{"ROOT: media root required"},
				Errors:  []string{"library.workers: must be at least 1, got 0", "log.format: must be text or json; got \"xml\""},
			},
			want: "config.toml: 3 config problems\n" +
				"  env ROOT: media root required is not set\n" +
				"  library.workers: must be at least 1, got 0\n" +
				"  log.format: must be text or json; got \"xml\"",
		},
		{
			name: "no path",
			err:  &ConfigError{Errors: []string{"subject_id: required"}},
			want: "1 config problem\n  subject_id: required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.Equal(t, tt.want != "", tt.err.HasErrors())
		})
	}
}

func TestConfigError_As(t *testing.T) {
	wrapped := fmt.Errorf("load show: %w", &ConfigError{Path: "dantalian.toml", Errors: []string{"x"}})

	var cfgErr *ConfigError
	require.True(t, errors.As(wrapped, &cfgErr))
	assert.Equal(t, "dantalian.toml", cfgErr.Path)
}
