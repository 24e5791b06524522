package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one recorded organize pass.
type Run struct {
	ID         string
	Target     string
	Recursive  bool
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
	Total      int
	Skipped    int
	Reverted   bool
}

// Move is one relocation belonging to a run, ordered by Seq.
type Move struct {
	RunID    string
	Seq      int
	Source   string
	Dest     string
	Category string
}

// ErrAmbiguousRun indicates an ID prefix that matches more than one run.
var ErrAmbiguousRun = errors.New("run id prefix is ambiguous")

const runColumns = "id, target, recursive, started_at, finished_at, duration_ms, total, skipped, reverted"

// Begin records the start of a live organize pass.
func (s *Store) Begin(ctx context.Context, target string, recursive bool) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Target:    target,
		Recursive: recursive,
		StartedAt: time.Now().UTC(),
	}
	err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, target, recursive, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Target, boolToInt(run.Recursive), run.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// RecordMoves appends moves to a run in one transaction. Sequence numbers
// follow slice order.
func (s *Store) RecordMoves(ctx context.Context, runID string, moves []Move) error {
	if len(moves) == 0 {
		return nil
	}
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO moves (run_id, seq, source, dest, category) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, mv := range moves {
			if _, err := stmt.ExecContext(ctx, runID, i+1, mv.Source, mv.Dest, mv.Category); err != nil {
				return fmt.Errorf("insert move: %w", err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit moves: %w", err)
		}
		return nil
	})
}

// Finish stamps the run with its outcome.
func (s *Store) Finish(ctx context.Context, runID string, total, skipped int, duration time.Duration) error {
	err := s.execWithRetry(ctx,
		`UPDATE runs SET finished_at = ?, duration_ms = ?, total = ?, skipped = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), duration.Milliseconds(), total, skipped, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// MarkReverted flags a run after its moves were undone.
func (s *Store) MarkReverted(ctx context.Context, runID string) error {
	if err := s.execWithRetry(ctx, `UPDATE runs SET reverted = 1 WHERE id = ?`, runID); err != nil {
		return fmt.Errorf("mark reverted: %w", err)
	}
	return nil
}

// Find returns the run matching id exactly or by unique prefix. It returns
// nil when nothing matches.
func (s *Store) Find(ctx context.Context, id string) (*Run, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR id LIKE ? ORDER BY rowid DESC LIMIT 2`,
		id, id+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("find run: %w", err)
	}
	defer rows.Close()

	var matches []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.ID == id {
			return run, nil
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find run: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousRun, id)
	}
}

// Latest returns the most recent finished run that has not been reverted,
// or nil when the journal is empty.
func (s *Store) Latest(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+runColumns+` FROM runs
         WHERE finished_at IS NOT NULL AND reverted = 0
         ORDER BY rowid DESC LIMIT 1`,
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	return run, nil
}

// List returns runs newest first, up to limit.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+runColumns+` FROM runs ORDER BY rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Moves returns a run's moves in the order they happened.
func (s *Store) Moves(ctx context.Context, runID string) ([]Move, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT run_id, seq, source, dest, category FROM moves WHERE run_id = ? ORDER BY seq`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}
	defer rows.Close()

	var moves []Move
	for rows.Next() {
		var mv Move
		if err := rows.Scan(&mv.RunID, &mv.Seq, &mv.Source, &mv.Dest, &mv.Category); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		moves = append(moves, mv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}
	return moves, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run        Run
		recursive  int
		reverted   int
		startedAt  string
		finishedAt sql.NullString
		durationMS int64
	)
	err := row.Scan(&run.ID, &run.Target, &recursive, &startedAt, &finishedAt,
		&durationMS, &run.Total, &run.Skipped, &reverted)
	if err != nil {
		return nil, err
	}
	run.Recursive = recursive != 0
	run.Reverted = reverted != 0
	run.Duration = time.Duration(durationMS) * time.Millisecond
	if parsed, parseErr := time.Parse(time.RFC3339Nano, startedAt); parseErr == nil {
		run.StartedAt = parsed
	}
	if finishedAt.Valid {
		if parsed, parseErr := time.Parse(time.RFC3339Nano, finishedAt.String); parseErr == nil {
			run.FinishedAt = parsed
		}
	}
	return &run, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
