// internal/config/validate.go
package config

import (
	"fmt"
	"os"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

var validLogFormats = map[string]bool{
	"text": true, "json": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Library.Workers < 1 {
		errs = append(errs, fmt.Sprintf("library.workers: must be at least 1, got %d", c.Library.Workers))
	}
	for i, src := range c.Library.Sources {
		if src == "" {
			errs = append(errs, fmt.Sprintf("library.sources[%d]: empty path", i))
			continue
		}
		info, err := os.Stat(src)
		switch {
		case err != nil:
			errs = append(errs, fmt.Sprintf("library.sources[%d]: directory %q does not exist", i, src))
		case !info.IsDir():
			errs = append(errs, fmt.Sprintf("library.sources[%d]: %q is not a directory", i, src))
		}
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}
	if !validLogFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format: must be text or json; got %q", c.Log.Format))
	}

	if c.History.Enabled && c.History.Path == "" {
		errs = append(errs, "history.path: required when history is enabled")
	}

	return errs
}
