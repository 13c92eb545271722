package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmunix/dantalian/internal/library"
)

// Completion helpers for flag and argument values; cobra provides the
// "completion" command itself.

func completeDirs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return nil, cobra.ShellCompDirectiveFilterDirs
}

// completeShowNames offers the show directory names under the configured
// sources, the form --force-dir and library.force expect.
func completeShowNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return showNames(cfg.Library.Sources, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func showNames(sources []string, prefix string) []string {
	var names []string
	for _, src := range sources {
		dirs, err := library.Discover(src)
		if err != nil {
			continue
		}
		for _, dir := range dirs {
			if name := filepath.Base(dir); strings.HasPrefix(name, prefix) {
				names = append(names, name)
			}
		}
	}
	return names
}
