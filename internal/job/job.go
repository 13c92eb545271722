// Package job plans NFO work for one show directory: whether tvshow.nfo
// needs generating and which episodes still lack a sidecar.
package job

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/vmunix/dantalian/internal/config"
	"github.com/vmunix/dantalian/internal/episode"
	"github.com/vmunix/dantalian/internal/media"
)

const (
	// ShowMetadataName is the show-level NFO inside a show directory.
	ShowMetadataName = "tvshow.nfo"

	// SidecarExt replaces the video extension to form an episode NFO path.
	SidecarExt = ".nfo"
)

// ErrInvalidPath is returned when a sidecar path is not valid UTF-8.
var ErrInvalidPath = errors.New("path is not valid UTF-8")

// Job is the planned work for one directory.
type Job struct {
	SubjectID                  uint32       `json:"subject_id"`
	ShouldGenerateShowMetadata bool         `json:"generate_show_metadata"`
	Episodes                   []EpisodeJob `json:"episodes"`
}

// EpisodeJob is one video file that needs an NFO sidecar.
type EpisodeJob struct {
	Index              string `json:"index"`
	IsSpecial          bool   `json:"special"`
	TargetMetadataPath string `json:"target"`
}

// IsEmpty reports whether the job has nothing to do.
func (j *Job) IsEmpty() bool {
	return !j.ShouldGenerateShowMetadata && len(j.Episodes) == 0
}

// Planner scans show directories. The zero value uses media.IsVideoFile.
type Planner struct {
	IsVideo func(path string) bool
}

// Parse plans dir with the default Planner.
func Parse(dir string, subject *config.Subject, force bool) (*Job, error) {
	var p Planner
	return p.Parse(dir, subject, force)
}

// Parse lists dir one level deep and returns the job for it. force
// regenerates tvshow.nfo and every episode sidecar. Any listing error fails
// the whole scan.
func (p *Planner) Parse(dir string, subject *config.Subject, force bool) (*Job, error) {
	showNFO := filepath.Join(dir, ShowMetadataName)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	episodes := make([]EpisodeJob, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		ep, ok, err := p.classify(filepath.Join(dir, entry.Name()), entry.Name(), subject, force)
		if err != nil {
			return nil, err
		}
		if ok {
			episodes = append(episodes, ep)
		}
	}

	return &Job{
		SubjectID:                  subject.SubjectID,
		ShouldGenerateShowMetadata: force || !exists(showNFO),
		Episodes:                   episodes,
	}, nil
}

// classify decides whether the file at path needs an episode job.
// Files that are not videos, already have a sidecar, or do not match the
// naming pattern are skipped without error.
func (p *Planner) classify(path, name string, subject *config.Subject, force bool) (EpisodeJob, bool, error) {
	if !p.isVideo(path) {
		return EpisodeJob{}, false, nil
	}
	if !utf8.ValidString(name) {
		return EpisodeJob{}, false, nil
	}

	sidecar := SidecarPath(path)
	if !force && exists(sidecar) {
		return EpisodeJob{}, false, nil
	}

	if subject.NormalizeNames {
		name = episode.NormalizeName(name)
	}
	m := subject.EpisodePattern().Match(name)
	ep, ok := m.Group(episode.GroupEpisode)
	if !ok {
		return EpisodeJob{}, false, nil
	}
	index := episode.ApplyOffset(episode.NormalizeIndex(ep), subject.EpisodeOffset)

	sp, ok := m.Group(episode.GroupSpecial)
	special := ok && sp != ""

	if !utf8.ValidString(sidecar) {
		return EpisodeJob{}, false, fmt.Errorf("%w: %q", ErrInvalidPath, sidecar)
	}

	return EpisodeJob{
		Index:              index,
		IsSpecial:          special,
		TargetMetadataPath: sidecar,
	}, true, nil
}

func (p *Planner) isVideo(path string) bool {
	if p.IsVideo != nil {
		return p.IsVideo(path)
	}
	return media.IsVideoFile(path)
}

// SidecarPath returns path with its extension replaced by SidecarExt.
// A name without an extension, such as ".mkv", gets SidecarExt appended.
func SidecarPath(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == base {
		return path + SidecarExt
	}
	return strings.TrimSuffix(path, ext) + SidecarExt
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
