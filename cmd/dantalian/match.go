package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vmunix/dantalian/internal/config"
	"github.com/vmunix/dantalian/internal/episode"
	"github.com/vmunix/dantalian/internal/media"
)

// MatchResult shows how a file name is read by a naming pattern.
type MatchResult struct {
	Name    string `json:"name"`
	Video   bool   `json:"video"`
	Matched bool   `json:"matched"`
	Episode string `json:"episode,omitempty"`
	Index   string `json:"index,omitempty"`
	Special bool   `json:"special"`
}

var matchCmd = &cobra.Command{
	Use:   "match [flags] <filename>...",
	Short: "Show how file names match an episode pattern (no filesystem access)",
	Long: `Apply an episode pattern to file names and print the episode index
each would be assigned.

Examples:
  dantalian match "[Sub] Show [07][1080p].mkv"
  dantalian match --re 'E(?P<ep>\d+)' --offset -12 Show.E13.mkv
  dantalian match --show ./Frieren "[Sub] Frieren [29].mkv"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMatchCmd,
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().String("re", "", "Episode pattern (default: built-in pattern)")
	matchCmd.Flags().Int("offset", 0, "Episode offset")
	matchCmd.Flags().String("show", "", "Read pattern and offset from this show directory's dantalian.toml")
	_ = matchCmd.RegisterFlagCompletionFunc("show", completeDirs)
}

func runMatchCmd(cmd *cobra.Command, args []string) error {
	expr, _ := cmd.Flags().GetString("re")
	offset, _ := cmd.Flags().GetInt("offset")
	showDir, _ := cmd.Flags().GetString("show")

	subject := &config.Subject{EpisodeOffset: offset}
	if showDir != "" {
		s, err := config.LoadSubject(showDir)
		if err != nil {
			return err
		}
		subject = s
	}
	if expr != "" {
		p, err := episode.Compile(expr)
		if err != nil {
			return err
		}
		subject.Pattern = p
	}
	if cmd.Flags().Changed("offset") {
		subject.EpisodeOffset = offset
	}

	results := make([]MatchResult, len(args))
	for i, name := range args {
		results[i] = describeMatch(subject, name)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), results)
	}
	printMatches(cmd.OutOrStdout(), subject.EpisodePattern(), results)
	return nil
}

// describeMatch applies the subject's pattern the same way a directory
// scan does, minus the filesystem checks.
func describeMatch(subject *config.Subject, name string) MatchResult {
	base := filepath.Base(name)
	res := MatchResult{Name: base, Video: media.IsVideoFile(base)}

	if subject.NormalizeNames {
		base = episode.NormalizeName(base)
	}
	m := subject.EpisodePattern().Match(base)
	ep, ok := m.Group(episode.GroupEpisode)
	if !ok {
		return res
	}

	res.Matched = true
	res.Episode = ep
	res.Index = episode.ApplyOffset(episode.NormalizeIndex(ep), subject.EpisodeOffset)
	sp, ok := m.Group(episode.GroupSpecial)
	res.Special = ok && sp != ""
	return res
}

func printMatches(w io.Writer, p *episode.Pattern, results []MatchResult) {
	fmt.Fprintf(w, "Pattern: %s\n\n", p)
	for _, r := range results {
		if !r.Matched {
			fmt.Fprintf(w, "  %-8s %s\n", "no match", r.Name)
			continue
		}
		kind := "ep"
		if r.Special {
			kind = "sp"
		}
		note := ""
		if !r.Video {
			note = "  (not a video file)"
		}
		fmt.Fprintf(w, "  %-2s %-5s %s%s\n", kind, r.Index, r.Name, note)
	}
}
