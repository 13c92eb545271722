package config

import (
	"fmt"
	"strings"
)

// ConfigError collects every problem found in one file: unresolved
// environment references and invalid values.
type ConfigError struct {
	Path    string
	Missing []string // unresolved ${VAR} references, or "VAR: message" for ${VAR:?message}
	Errors  []string // "key: reason"

	causes []error
}

// Unwrap exposes the errors behind Errors, such as
// episode.ErrMissingEpisodeGroup, to errors.Is and errors.As.
func (e *ConfigError) Unwrap() []error {
	return e.causes
}

func (e *ConfigError) Error() string {
	n := len(e.Missing) + len(e.Errors)
	if n == 0 {
		return ""
	}

	var b strings.Builder
	noun := "problem"
	if n > 1 {
		noun = "problems"
	}
	if e.Path != "" {
		fmt.Fprintf(&b, "%s: ", e.Path)
	}
	fmt.Fprintf(&b, "%d config %s", n, noun)
	for _, m := range e.Missing {
		fmt.Fprintf(&b, "\n  env %s is not set", m)
	}
	for _, msg := range e.Errors {
		fmt.Fprintf(&b, "\n  %s", msg)
	}
	return b.String()
}

// HasErrors reports whether anything was collected.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing)+len(e.Errors) > 0
}
