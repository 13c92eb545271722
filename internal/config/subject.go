package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/vmunix/dantalian/internal/episode"
)

// SubjectFileName is the per-show config file looked up inside each show
// directory.
const SubjectFileName = "dantalian.toml"

var (
	// ErrConfigNotFound is returned by Discover when no config file exists.
	ErrConfigNotFound = errors.New("config not found")

	// ErrNoSubjectConfig is returned by LoadSubject when the show directory
	// has no dantalian.toml. It matches fs.ErrNotExist.
	ErrNoSubjectConfig = fmt.Errorf("no %s: %w", SubjectFileName, fs.ErrNotExist)
)

var defaultPattern = episode.Default()

// subjectFile is the on-disk shape of dantalian.toml. The pattern stays
// text until decoding succeeds so compile errors join the other problems.
type subjectFile struct {
	SubjectID      uint32  `toml:"subject_id"`
	EpisodeRe      *string `toml:"episode_re"`
	EpisodeOffset  int     `toml:"episode_offset"`
	NormalizeNames bool    `toml:"normalize_names"`
}

// Subject is the naming configuration of one show directory.
type Subject struct {
	SubjectID      uint32
	Pattern        *episode.Pattern
	EpisodeOffset  int
	NormalizeNames bool
}

// EpisodePattern returns the configured pattern, or the default one.
func (s *Subject) EpisodePattern() *episode.Pattern {
	if s.Pattern == nil {
		return defaultPattern
	}
	return s.Pattern
}

// LoadSubject reads dir/dantalian.toml.
func LoadSubject(dir string) (*Subject, error) {
	path := filepath.Join(dir, SubjectFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", dir, ErrNoSubjectConfig)
		}
		return nil, fmt.Errorf("reading subject config: %w", err)
	}
	return ParseSubject(path, string(data))
}

// ParseSubject decodes subject config content. path is only used in errors.
func ParseSubject(path, content string) (*Subject, error) {
	content, missing := substituteEnvVars(content)
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var f subjectFile
	md, err := toml.Decode(content, &f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	s := &Subject{
		SubjectID:      f.SubjectID,
		Pattern:        defaultPattern,
		EpisodeOffset:  f.EpisodeOffset,
		NormalizeNames: f.NormalizeNames,
	}
	cfgErr := &ConfigError{Path: path}

	if !md.IsDefined("subject_id") {
		cfgErr.Errors = append(cfgErr.Errors, "subject_id: required")
	}
	if f.EpisodeRe != nil {
		p, err := episode.Compile(*f.EpisodeRe)
		if err != nil {
			cfgErr.Errors = append(cfgErr.Errors, fmt.Sprintf("episode_re: %v", err))
			cfgErr.causes = append(cfgErr.causes, err)
		} else {
			s.Pattern = p
		}
	}
	for _, key := range md.Undecoded() {
		cfgErr.Errors = append(cfgErr.Errors, fmt.Sprintf("%s: unknown key", key))
	}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}

	return s, nil
}
