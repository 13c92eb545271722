package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vmunix/dantalian/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history [plan-id]",
	Short: "List recorded plans",
	Long: `List recorded plans, or show one plan with its episodes.

Examples:
  dantalian history --subject 400602
  dantalian history 12
  dantalian history --prune 720h`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistoryCmd,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().String("dir", "", "Only plans for this show directory")
	historyCmd.Flags().Uint32("subject", 0, "Only plans for this subject id")
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of plans")
	historyCmd.Flags().BoolP("verbose", "v", false, "List planned episodes")
	historyCmd.Flags().Duration("prune", 0, "Delete plans older than this duration instead of listing")
	_ = historyCmd.RegisterFlagCompletionFunc("dir", completeDirs)
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	subject, _ := cmd.Flags().GetUint32("subject")
	limit, _ := cmd.Flags().GetInt("limit")
	verbose, _ := cmd.Flags().GetBool("verbose")
	prune, _ := cmd.Flags().GetDuration("prune")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("history is disabled in config")
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	switch {
	case prune > 0:
		n, err := store.Prune(ctx, time.Now().Add(-prune))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d plans.\n", n)
		return nil
	case len(args) == 1:
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid plan id %q", args[0])
		}
		entry, err := store.Get(ctx, id)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), entry)
		}
		printHistory(cmd.OutOrStdout(), []*history.Entry{entry}, true)
		return nil
	}

	filter := history.Filter{Dir: dir, Limit: limit}
	if cmd.Flags().Changed("subject") {
		filter.SubjectID = &subject
	}

	entries, err := store.List(ctx, filter)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), entries)
	}
	printHistory(cmd.OutOrStdout(), entries, verbose)
	return nil
}

func printHistory(w io.Writer, entries []*history.Entry, verbose bool) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No plans recorded.")
		return
	}

	fmt.Fprintf(w, "  %-4s %-19s %-9s %-5s %-4s %s\n", "ID", "WHEN", "SUBJECT", "SHOW", "EPS", "DIR")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 80))
	for _, e := range entries {
		show := "-"
		if e.GenerateShow {
			show = "yes"
		}
		dir := e.Dir
		if e.Forced {
			dir += " [forced]"
		}
		fmt.Fprintf(w, "  %-4d %-19s %-9d %-5s %-4d %s\n",
			e.ID,
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			e.SubjectID,
			show,
			len(e.Episodes),
			dir)
		if verbose {
			for _, ep := range e.Episodes {
				kind := "ep"
				if ep.IsSpecial {
					kind = "sp"
				}
				fmt.Fprintf(w, "        %-2s %-5s %s\n", kind, ep.Index, ep.TargetMetadataPath)
			}
		}
	}
}
