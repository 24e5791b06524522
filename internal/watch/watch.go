package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"shelf/internal/config"
	"shelf/internal/journal"
	"shelf/internal/logging"
	"shelf/internal/organize"
)

// Watcher repeatedly organizes a directory on a fixed interval. A file lock
// in the log directory keeps a second watcher off the same machine state.
type Watcher struct {
	org      *organize.Organizer
	store    *journal.Store
	logger   *slog.Logger
	req      organize.Request
	interval time.Duration

	lockPath string
	lock     *flock.Flock
}

// New constructs a watcher. The journal store may be nil, in which case
// passes are not recorded.
func New(cfg *config.Config, org *organize.Organizer, store *journal.Store, logger *slog.Logger, req organize.Request) (*Watcher, error) {
	if cfg == nil {
		return nil, errors.New("watch requires config")
	}
	if org == nil {
		return nil, errors.New("watch requires an organizer")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("prepare log directory: %w", err)
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "watch.lock")
	return &Watcher{
		org:      org,
		store:    store,
		logger:   logger,
		req:      req,
		interval: time.Duration(cfg.Watch.PollInterval) * time.Second,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Run organizes the target immediately, then again every poll interval
// until the context is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	ok, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire watch lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another watch instance is already running (lock %s)", w.lockPath)
	}
	defer func() {
		if err := w.lock.Unlock(); err != nil {
			w.logger.Warn("failed to release watch lock", logging.Error(err))
		}
	}()

	w.logger.Info("watching directory",
		logging.String("target", w.req.Dir),
		logging.Duration("interval", w.interval),
		logging.Bool("recursive", w.req.Recursive),
		logging.Bool("dry_run", w.req.DryRun),
	)

	w.pass(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch stopped")
			return nil
		case <-ticker.C:
			w.pass(ctx)
		}
	}
}

// pass runs one organize sweep and records it in the journal when
// something actually moved.
func (w *Watcher) pass(ctx context.Context) {
	start := time.Now()
	stats, err := w.org.Run(w.req)
	if err != nil {
		w.logger.Error("organize pass failed", logging.Error(err))
		return
	}
	if stats.Total == 0 && stats.Skipped == 0 {
		return
	}

	w.logger.Info("organize pass complete",
		logging.Int("moved", stats.Total),
		logging.Int("skipped", stats.Skipped),
		logging.Duration("elapsed", time.Since(start)),
	)

	if w.store == nil || w.req.DryRun {
		return
	}
	run, err := w.store.Begin(ctx, w.req.Dir, w.req.Recursive)
	if err != nil {
		w.logger.Warn("journal begin failed", logging.Error(err))
		return
	}
	if err := w.store.RecordMoves(ctx, run.ID, journalMoves(stats.Moves)); err != nil {
		w.logger.Warn("journal record failed", logging.Error(err))
	}
	if err := w.store.Finish(ctx, run.ID, stats.Total, stats.Skipped, time.Since(start)); err != nil {
		w.logger.Warn("journal finish failed", logging.Error(err))
	}
}

func journalMoves(moves []organize.Move) []journal.Move {
	records := make([]journal.Move, 0, len(moves))
	for _, mv := range moves {
		if mv.Simulated {
			continue
		}
		records = append(records, journal.Move{
			Source:   filepath.Join(mv.Dir, mv.Name),
			Dest:     mv.Dest,
			Category: mv.Category,
		})
	}
	return records
}
