// Package history persists planned jobs so past runs can be inspected.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vmunix/dantalian/internal/job"
	"github.com/vmunix/dantalian/internal/migrations"
	_ "modernc.org/sqlite"
)

// Entry is one recorded plan.
type Entry struct {
	ID           int64            `json:"id"`
	Dir          string           `json:"dir"`
	SubjectID    uint32           `json:"subject_id"`
	GenerateShow bool             `json:"generate_show_metadata"`
	Forced       bool             `json:"forced"`
	Episodes     []job.EpisodeJob `json:"episodes"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Filter specifies criteria for listing history.
type Filter struct {
	Dir       string
	SubjectID *uint32
	Limit     int
}

// Store persists plans in sqlite.
type Store struct {
	db *sql.DB
}

// NewStore wraps an already migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) the history database at path and applies
// the schema. Use ":memory:" for a throwaway store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	// sqlite allows one writer; one connection also keeps :memory: shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return NewStore(db), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores j as planned for dir in a single transaction.
func (s *Store) Record(ctx context.Context, dir string, forced bool, j *job.Job) (*Entry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx, `
		INSERT INTO plans (dir, subject_id, generate_show, forced, episode_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		dir, j.SubjectID, j.ShouldGenerateShowMetadata, forced, len(j.Episodes), now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert plan: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	for i, ep := range j.Episodes {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO plan_episodes (plan_id, position, episode_index, special, target)
			VALUES (?, ?, ?, ?, ?)`,
			id, i, ep.Index, ep.IsSpecial, ep.TargetMetadataPath,
		); err != nil {
			return nil, fmt.Errorf("insert plan episode: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit plan: %w", err)
	}

	episodes := make([]job.EpisodeJob, len(j.Episodes))
	copy(episodes, j.Episodes)
	return &Entry{
		ID:           id,
		Dir:          dir,
		SubjectID:    j.SubjectID,
		GenerateShow: j.ShouldGenerateShowMetadata,
		Forced:       forced,
		Episodes:     episodes,
		CreatedAt:    now,
	}, nil
}

// List returns plans matching the filter, most recent first, with their
// episodes in planned order.
func (s *Store) List(ctx context.Context, f Filter) ([]*Entry, error) {
	var conditions []string
	var args []any

	if f.Dir != "" {
		conditions = append(conditions, "dir = ?")
		args = append(args, f.Dir)
	}
	if f.SubjectID != nil {
		conditions = append(conditions, "subject_id = ?")
		args = append(args, *f.SubjectID)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := `SELECT id, dir, subject_id, generate_show, forced, created_at
		FROM plans ` + whereClause + ` ORDER BY created_at DESC, id DESC`

	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.Dir, &e.SubjectID, &e.GenerateShow, &e.Forced, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plans: %w", err)
	}
	// Close before issuing more queries on the single connection.
	_ = rows.Close()

	for _, e := range results {
		episodes, err := s.episodes(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		e.Episodes = episodes
	}

	return results, nil
}

// Get returns the plan with the given id.
func (s *Store) Get(ctx context.Context, id int64) (*Entry, error) {
	e := &Entry{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, dir, subject_id, generate_show, forced, created_at
		FROM plans WHERE id = ?`, id,
	).Scan(&e.ID, &e.Dir, &e.SubjectID, &e.GenerateShow, &e.Forced, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("plan %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}

	e.Episodes, err = s.episodes(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Prune deletes plans recorded before cutoff and reports how many went.
// Their episodes go with them through the foreign key cascade.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM plans WHERE created_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune plans: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return n, nil
}

func (s *Store) episodes(ctx context.Context, planID int64) ([]job.EpisodeJob, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT episode_index, special, target
		FROM plan_episodes WHERE plan_id = ? ORDER BY position`, planID)
	if err != nil {
		return nil, fmt.Errorf("list plan episodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	episodes := []job.EpisodeJob{}
	for rows.Next() {
		var ep job.EpisodeJob
		if err := rows.Scan(&ep.Index, &ep.IsSpecial, &ep.TargetMetadataPath); err != nil {
			return nil, fmt.Errorf("scan plan episode: %w", err)
		}
		episodes = append(episodes, ep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plan episodes: %w", err)
	}
	return episodes, nil
}
