// Package episode matches video file names against a show's naming pattern
// and turns the captured episode text into the index written to sidecars.
package episode

import (
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/text/unicode/norm"
)

// Capture group names recognized in naming patterns.
const (
	GroupEpisode = "ep"
	GroupSpecial = "sp"
)

// DefaultPattern matches the bracketed episode numbers most fansub releases
// use, e.g. "[Group] Title [07][1080p].mkv" or "[Group] Title [SP01].mkv".
const DefaultPattern = `\[(?P<sp>SP)?(?P<ep>\d+(?:\.\d+)?)(?:v\d+)?\]`

// ErrMissingEpisodeGroup is returned when a pattern has no "ep" group.
var ErrMissingEpisodeGroup = errors.New("pattern must contain a (?P<ep>...) group")

// Pattern is a compiled naming pattern with a required "ep" group and an
// optional "sp" group.
type Pattern struct {
	re *regexp.Regexp
}

// Compile parses expr and checks that it captures an episode number.
func Compile(expr string) (*Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile episode pattern: %w", err)
	}
	if re.SubexpIndex(GroupEpisode) < 0 {
		return nil, fmt.Errorf("%q: %w", expr, ErrMissingEpisodeGroup)
	}
	return &Pattern{re: re}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(expr string) *Pattern {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Default returns the compiled DefaultPattern.
func Default() *Pattern {
	return MustCompile(DefaultPattern)
}

// String returns the source expression.
func (p *Pattern) String() string {
	if p == nil || p.re == nil {
		return ""
	}
	return p.re.String()
}

// Match applies the pattern to name. The leftmost match wins.
func (p *Pattern) Match(name string) Match {
	return Match{
		subject: name,
		re:      p.re,
		loc:     p.re.FindStringSubmatchIndex(name),
	}
}

// Match is the result of applying a Pattern to a name.
type Match struct {
	subject string
	re      *regexp.Regexp
	loc     []int
}

// Matched reports whether the pattern matched at all.
func (m Match) Matched() bool {
	return m.loc != nil
}

// Group returns the text captured by the named group. ok is false when the
// pattern did not match, has no such group, or the group did not take part
// in the match. A group that took part may still capture "".
func (m Match) Group(name string) (text string, ok bool) {
	if m.loc == nil {
		return "", false
	}
	i := m.re.SubexpIndex(name)
	if i < 0 {
		return "", false
	}
	start, end := m.loc[2*i], m.loc[2*i+1]
	if start < 0 {
		return "", false
	}
	return m.subject[start:end], true
}

// NormalizeName returns name in Unicode NFC form. File names written on
// macOS arrive decomposed, which breaks patterns containing precomposed
// characters.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}
