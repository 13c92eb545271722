// Package media classifies files found in show directories.
package media

import (
	"path/filepath"
	"strings"
)

// videoExtensions are the container formats treated as episodes.
var videoExtensions = map[string]bool{
	".3gp":  true,
	".avi":  true,
	".flv":  true,
	".m2ts": true,
	".m4v":  true,
	".mkv":  true,
	".mov":  true,
	".mp4":  true,
	".mpeg": true,
	".mpg":  true,
	".mts":  true,
	".ogm":  true,
	".rm":   true,
	".rmvb": true,
	".ts":   true,
	".vob":  true,
	".webm": true,
	".wmv":  true,
}

// IsVideoFile reports whether path has a known video extension.
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return videoExtensions[ext]
}
