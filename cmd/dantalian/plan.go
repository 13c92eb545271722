package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vmunix/dantalian/internal/history"
	"github.com/vmunix/dantalian/internal/job"
	"github.com/vmunix/dantalian/internal/library"
)

// PlanResultJSON is the JSON form of one planned directory.
type PlanResultJSON struct {
	Dir    string   `json:"dir"`
	Forced bool     `json:"forced"`
	Job    *job.Job `json:"job,omitempty"`
	Error  string   `json:"error,omitempty"`
}

var planCmd = &cobra.Command{
	Use:   "plan [show-dir...]",
	Short: "Plan NFO generation for show directories",
	Long: `Plan NFO generation for show directories.

With arguments, each argument is planned as a show directory. Otherwise every
subdirectory of the configured sources that holds a dantalian.toml is planned.

Examples:
  dantalian plan
  dantalian plan --source /media/anime --force-dir "Bocchi the Rock!"
  dantalian plan --json ./Frieren`,
	RunE: runPlanCmd,
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().Bool("force", false, "Regenerate all NFO files")
	planCmd.Flags().StringArray("force-dir", nil, "Regenerate NFO files for this show directory name (repeatable)")
	planCmd.Flags().StringArray("source", nil, "Source directory to scan instead of the configured ones (repeatable)")
	planCmd.Flags().Int("workers", 0, "Show directories planned in parallel (default from config)")
	planCmd.Flags().Bool("no-history", false, "Do not record plans")

	planCmd.ValidArgsFunction = completeDirs
	_ = planCmd.RegisterFlagCompletionFunc("source", completeDirs)
	_ = planCmd.RegisterFlagCompletionFunc("force-dir", completeShowNames)
}

func runPlanCmd(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	forceDirs, _ := cmd.Flags().GetStringArray("force-dir")
	sources, _ := cmd.Flags().GetStringArray("source")
	workers, _ := cmd.Flags().GetInt("workers")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.Log)

	if workers <= 0 {
		workers = cfg.Library.Workers
	}
	opts := []library.Option{
		library.WithWorkers(workers),
		library.WithForceAll(force),
		library.WithForce(cfg.Library.Force...),
		library.WithForce(forceDirs...),
	}

	if cfg.History.Enabled && !noHistory {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		opts = append(opts, library.WithHistory(store))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	planner := library.NewPlanner(logger, opts...)

	var results []library.Result
	if len(args) > 0 {
		var dirs []string
		if dirs, err = absDirs(args); err != nil {
			return err
		}
		results, err = planner.PlanDirs(ctx, dirs)
	} else {
		if len(sources) == 0 {
			sources = cfg.Library.Sources
		}
		if len(sources) == 0 {
			return fmt.Errorf("no sources configured: pass show directories, --source, or set library.sources")
		}
		results, err = planner.PlanAll(ctx, sources)
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		if err := printJSON(cmd.OutOrStdout(), planResultsJSON(results)); err != nil {
			return err
		}
	} else {
		printPlan(cmd.OutOrStdout(), results)
	}

	if failed := countFailed(results); failed > 0 {
		return fmt.Errorf("%d of %d directories failed", failed, len(results))
	}
	return nil
}

// absDirs resolves show directory arguments so "." still has a name to
// match --force-dir against and history stores a stable path.
func absDirs(args []string) ([]string, error) {
	dirs := make([]string, len(args))
	for i, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", arg, err)
		}
		dirs[i] = abs
	}
	return dirs, nil
}

func planResultsJSON(results []library.Result) []PlanResultJSON {
	out := make([]PlanResultJSON, len(results))
	for i, r := range results {
		out[i] = PlanResultJSON{Dir: r.Dir, Forced: r.Forced, Job: r.Job}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
		}
	}
	return out
}

func printPlan(w io.Writer, results []library.Result) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No show directories found.")
		return
	}

	var pending int
	for _, r := range results {
		name := filepath.Base(r.Dir)
		switch {
		case r.Err != nil:
			fmt.Fprintf(w, "%s\n  error: %v\n", name, r.Err)
		case r.Job.IsEmpty():
			fmt.Fprintf(w, "%s (subject %d): up to date\n", name, r.Job.SubjectID)
		default:
			pending++
			printJob(w, name, r.Forced, r.Job)
		}
	}

	fmt.Fprintf(w, "\n%d of %d directories need work.\n", pending, len(results))
}

func printJob(w io.Writer, name string, forced bool, j *job.Job) {
	suffix := ""
	if forced {
		suffix = " [forced]"
	}
	fmt.Fprintf(w, "%s (subject %d)%s\n", name, j.SubjectID, suffix)
	if j.ShouldGenerateShowMetadata {
		fmt.Fprintf(w, "  %-4s %-6s %s\n", "show", "", job.ShowMetadataName)
	}
	for _, ep := range j.Episodes {
		kind := "ep"
		if ep.IsSpecial {
			kind = "sp"
		}
		fmt.Fprintf(w, "  %-4s %-6s %s\n", kind, ep.Index, filepath.Base(ep.TargetMetadataPath))
	}
}

func countFailed(results []library.Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
