package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFile writes content to dir/name and returns the full path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// withGlobals restores the persistent flag variables after the test.
func withGlobals(t *testing.T, cfgPath string, asJSON bool) {
	t.Helper()
	oldPath, oldJSON, oldLevel := configPath, jsonOutput, logLevel
	configPath, jsonOutput, logLevel = cfgPath, asJSON, ""
	t.Cleanup(func() {
		configPath, jsonOutput, logLevel = oldPath, oldJSON, oldLevel
	})
}
