// Package library finds show directories under source roots and plans them
// in parallel.
package library

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmunix/dantalian/internal/config"
)

// Discover returns the immediate subdirectories of root that contain a
// dantalian.toml, in name order. Hidden directories are skipped.
func Discover(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", root, err)
	}

	var dirs []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if !isDir(dir, entry) {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, config.SubjectFileName)); err != nil {
			continue
		}
		dirs = append(dirs, dir)
	}

	return dirs, nil
}

// isDir follows symlinks so linked show folders are picked up.
func isDir(path string, entry fs.DirEntry) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir()
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
