package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shelf/internal/config"
	"shelf/internal/journal"
)

const runTimeFormat = "2006-01-02 15:04:05"

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded organize runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(_ *config.Config, store *journal.Store) error {
				if len(args) == 1 {
					return printRunDetail(cmd, store, args[0])
				}
				return printRunList(cmd, store, limit)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of runs to show")
	return cmd
}

func printRunList(cmd *cobra.Command, store *journal.Store, limit int) error {
	runs, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			run.StartedAt.Local().Format(runTimeFormat),
			run.Target,
			yesNo(run.Recursive),
			strconv.Itoa(run.Total),
			strconv.Itoa(run.Skipped),
			runStatus(run),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Run", "Started", "Target", "Recursive", "Moved", "Skipped", "Status"},
		rows, 4, 5,
	))
	return nil
}

func printRunDetail(cmd *cobra.Command, store *journal.Store, arg string) error {
	run, err := store.Find(cmd.Context(), strings.TrimSpace(arg))
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %q not found", arg)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s\n", run.ID)
	fmt.Fprintf(out, "Target:   %s (recursive: %s)\n", run.Target, yesNo(run.Recursive))
	fmt.Fprintf(out, "Started:  %s\n", run.StartedAt.Local().Format(runTimeFormat))
	if !run.FinishedAt.IsZero() {
		fmt.Fprintf(out, "Duration: %s\n", run.Duration)
	}
	fmt.Fprintf(out, "Moved:    %d (skipped %d)\n", run.Total, run.Skipped)
	fmt.Fprintf(out, "Status:   %s\n", runStatus(run))

	moves, err := store.Moves(cmd.Context(), run.ID)
	if err != nil {
		return err
	}
	if len(moves) == 0 {
		fmt.Fprintln(out, "No moves recorded")
		return nil
	}

	rows := make([][]string, 0, len(moves))
	for _, mv := range moves {
		rows = append(rows, []string{
			strconv.Itoa(mv.Seq),
			filepath.Base(mv.Source),
			mv.Category,
			mv.Dest,
		})
	}
	fmt.Fprintln(out, renderTable([]string{"#", "File", "Category", "Destination"}, rows, 0))
	return nil
}

func runStatus(run *journal.Run) string {
	switch {
	case run.Reverted:
		return "reverted"
	case run.FinishedAt.IsZero():
		return "incomplete"
	default:
		return "done"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
