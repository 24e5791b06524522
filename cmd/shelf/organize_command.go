package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"shelf/internal/events"
	"shelf/internal/journal"
	"shelf/internal/logging"
	"shelf/internal/organize"
	"shelf/internal/preflight"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var recursive bool

	cmd := &cobra.Command{
		Use:   "organize [directory]",
		Short: "Sort a directory's files into category folders",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			target, err := resolveTarget(arg)
			if err != nil {
				return err
			}

			if failure := preflight.FirstFailure(preflight.RunAll(cfg, target)); failure != nil {
				return fmt.Errorf("%s: %s", failure.Name, failure.Detail)
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			table, err := cfg.CategoryTable()
			if err != nil {
				return err
			}

			sink := events.NewLogSink(logging.NewComponentLogger(logger, "organize"))
			org := organize.New(table, sink)
			req := organize.Request{Dir: target, DryRun: dryRun, Recursive: recursive}

			start := time.Now()
			stats, err := org.Run(req)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			if !dryRun {
				store, journalErr := journal.Open(cfg)
				if journalErr != nil {
					logger.Warn("journal unavailable", logging.Error(journalErr))
				} else {
					recordRun(cmd.Context(), store, logger, req, stats, elapsed)
					store.Close()
				}
			}

			printSummary(cmd.OutOrStdout(), org.Table().Names(), stats, dryRun, elapsed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview moves without changing anything")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Organize subdirectories too")
	return cmd
}

// recordRun persists one live pass to the journal. Journal trouble is
// reported but never fails the command; the files already moved.
func recordRun(ctx context.Context, store *journal.Store, logger *slog.Logger, req organize.Request, stats *organize.Stats, elapsed time.Duration) {
	run, err := store.Begin(ctx, req.Dir, req.Recursive)
	if err != nil {
		logger.Warn("journal begin failed", logging.Error(err))
		return
	}
	moves := make([]journal.Move, 0, len(stats.Moves))
	for _, mv := range stats.Moves {
		if mv.Simulated {
			continue
		}
		moves = append(moves, journal.Move{
			Source:   filepath.Join(mv.Dir, mv.Name),
			Dest:     mv.Dest,
			Category: mv.Category,
		})
	}
	if err := store.RecordMoves(ctx, run.ID, moves); err != nil {
		logger.Warn("journal record failed", logging.Error(err))
	}
	if err := store.Finish(ctx, run.ID, stats.Total, stats.Skipped, elapsed); err != nil {
		logger.Warn("journal finish failed", logging.Error(err))
	}
}

func printSummary(out io.Writer, order []string, stats *organize.Stats, dryRun bool, elapsed time.Duration) {
	if stats.Total == 0 && stats.Skipped == 0 {
		fmt.Fprintln(out, "Nothing to organize")
		return
	}

	// The per-category breakdown is shown for live passes only; dry-run
	// keeps to the would-move total.
	if !dryRun {
		rows := make([][]string, 0, len(order))
		for _, name := range order {
			if count := stats.Categories[name]; count > 0 {
				rows = append(rows, []string{name, strconv.Itoa(count)})
			}
		}
		if len(rows) > 0 {
			fmt.Fprintln(out, renderTable([]string{"Category", "Files"}, rows, 1))
		}
	}

	verb := "Moved"
	if dryRun {
		verb = "Would move"
	}
	line := fmt.Sprintf("%s %d files in %s", verb, stats.Total, elapsed.Round(time.Millisecond))
	color := ansiGreen
	if stats.Skipped > 0 {
		line = fmt.Sprintf("%s %d files (%d skipped) in %s", verb, stats.Total, stats.Skipped, elapsed.Round(time.Millisecond))
		color = ansiYellow
	}
	fmt.Fprintln(out, paint(line, color, shouldColorize(out)))
}
