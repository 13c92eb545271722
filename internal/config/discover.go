package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigEnv names the environment variable that pins the config file.
const ConfigEnv = "DANTALIAN_CONFIG"

// xdgPath joins rel onto the XDG base directory named by env, falling back
// to ~/fallback. With no home directory the path is relative to the working
// directory.
func xdgPath(env, fallback string, rel ...string) string {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(rel...)
		}
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(append([]string{base}, rel...)...)
}

// DefaultPath is where init writes the config and the user-level location
// Discover checks.
func DefaultPath() string {
	return xdgPath("XDG_CONFIG_HOME", ".config", "dantalian", "config.toml")
}

// DefaultHistoryPath is the plan history database used when the config
// does not name one.
func DefaultHistoryPath() string {
	return xdgPath("XDG_DATA_HOME", filepath.Join(".local", "share"), "dantalian", "history.db")
}

// SearchPaths lists the locations Discover tries, in order.
func SearchPaths() []string {
	return []string{
		"config.toml",
		DefaultPath(),
		"/etc/dantalian/config.toml",
	}
}

// Discover returns the config file to load. DANTALIAN_CONFIG wins and must
// exist; otherwise the first existing entry of SearchPaths is used.
func Discover() (string, error) {
	if pinned := os.Getenv(ConfigEnv); pinned != "" {
		if _, err := os.Stat(pinned); err != nil {
			return "", fmt.Errorf("%s=%s: %w", ConfigEnv, pinned, err)
		}
		return pinned, nil
	}

	candidates := SearchPaths()
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w (tried %s)", ErrConfigNotFound, strings.Join(candidates, ", "))
}
