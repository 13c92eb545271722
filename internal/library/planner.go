package library

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/vmunix/dantalian/internal/config"
	"github.com/vmunix/dantalian/internal/job"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of planning one show directory. Exactly one of Job
// and Err is set.
type Result struct {
	Dir    string
	Forced bool
	Job    *job.Job
	Err    error
}

// Planner plans many show directories concurrently. Each directory is an
// independent scan; a failure in one never affects the others.
type Planner struct {
	workers  int
	forceAll bool
	force    map[string]bool
	history  HistoryWriter
	jobs     *job.Planner
	logger   *slog.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithWorkers caps the number of directories scanned at once.
func WithWorkers(n int) Option {
	return func(p *Planner) { p.workers = n }
}

// WithForceAll regenerates every NFO in every directory.
func WithForceAll(force bool) Option {
	return func(p *Planner) { p.forceAll = force }
}

// WithForce regenerates NFOs for show directories with these base names.
func WithForce(names ...string) Option {
	return func(p *Planner) {
		for _, name := range names {
			p.force[name] = true
		}
	}
}

// WithHistory records every non-empty job.
func WithHistory(h HistoryWriter) Option {
	return func(p *Planner) { p.history = h }
}

// WithJobPlanner overrides the single-directory scanner.
func WithJobPlanner(jp *job.Planner) Option {
	return func(p *Planner) { p.jobs = jp }
}

// NewPlanner creates a planner.
func NewPlanner(logger *slog.Logger, opts ...Option) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Planner{
		workers: 1,
		force:   make(map[string]bool),
		jobs:    &job.Planner{},
		logger:  logger.With("component", "planner"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.workers < 1 {
		p.workers = 1
	}
	return p
}

// PlanAll discovers show directories under roots and plans them.
// A root that cannot be listed fails the whole call.
func (p *Planner) PlanAll(ctx context.Context, roots []string) ([]Result, error) {
	var dirs []string
	for _, root := range roots {
		found, err := Discover(root)
		if err != nil {
			return nil, err
		}
		p.logger.Debug("discovered shows", "source", root, "count", len(found))
		dirs = append(dirs, found...)
	}
	return p.PlanDirs(ctx, dirs)
}

// PlanDirs plans each directory in dirs. Results are in the order of dirs.
// The only error returned is the context's.
func (p *Planner) PlanDirs(ctx context.Context, dirs []string) ([]Result, error) {
	results := make([]Result, len(dirs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, dir := range dirs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.plan(gctx, dir)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Planner) plan(ctx context.Context, dir string) Result {
	log := p.logger.With("dir", dir)
	res := Result{Dir: dir, Forced: p.forceAll || p.force[filepath.Base(dir)]}

	subject, err := config.LoadSubject(dir)
	if err != nil {
		res.Err = fmt.Errorf("load subject: %w", err)
		log.Warn("skipping show", "error", res.Err)
		return res
	}

	j, err := p.jobs.Parse(dir, subject, res.Forced)
	if err != nil {
		res.Err = fmt.Errorf("plan %s: %w", dir, err)
		log.Warn("plan failed", "error", err)
		return res
	}
	res.Job = j

	if j.IsEmpty() {
		log.Debug("nothing to do", "subject_id", j.SubjectID)
		return res
	}

	log.Info("planned",
		"subject_id", j.SubjectID,
		"show_metadata", j.ShouldGenerateShowMetadata,
		"episodes", len(j.Episodes),
		"forced", res.Forced,
	)

	if p.history != nil {
		if _, err := p.history.Record(ctx, dir, res.Forced, j); err != nil {
			log.Warn("record history failed", "error", err)
		}
	}

	return res
}
