package library

//go:generate mockgen -source=history.go -destination=mocks/history.go -package=mocks

import (
	"context"

	"github.com/vmunix/dantalian/internal/history"
	"github.com/vmunix/dantalian/internal/job"
)

// HistoryWriter records planned jobs. *history.Store implements it.
type HistoryWriter interface {
	Record(ctx context.Context, dir string, forced bool, j *job.Job) (*history.Entry, error)
}

var _ HistoryWriter = (*history.Store)(nil)
