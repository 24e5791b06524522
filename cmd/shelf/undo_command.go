package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"shelf/internal/config"
	"shelf/internal/journal"
	"shelf/internal/relocate"
)

func newUndoCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "undo [run-id]",
		Short: "Move the files of a recorded run back where they came from",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(_ *config.Config, store *journal.Store) error {
				run, err := resolveUndoRun(cmd, store, args)
				if err != nil {
					return err
				}

				moves, err := store.Moves(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				if len(moves) == 0 {
					return fmt.Errorf("run %s has no moves to undo", shortID(run.ID))
				}

				out := cmd.OutOrStdout()
				restored := 0
				gone := 0
				failed := 0
				for i := len(moves) - 1; i >= 0; i-- {
					mv := moves[i]
					if _, err := os.Stat(mv.Dest); errors.Is(err, os.ErrNotExist) {
						fmt.Fprintf(out, "skipping %s: no longer at %s\n", filepath.Base(mv.Source), mv.Dest)
						gone++
						continue
					}
					restorePath, err := relocate.UniquePath(mv.Source)
					if err != nil {
						fmt.Fprintf(out, "could not restore %s: %v\n", filepath.Base(mv.Source), err)
						failed++
						continue
					}
					result, err := relocate.Apply(mv.Dest, restorePath, dryRun)
					if err != nil {
						fmt.Fprintf(out, "could not restore %s: %v\n", filepath.Base(mv.Source), err)
						failed++
						continue
					}
					if result == relocate.Simulated {
						fmt.Fprintf(out, "would restore %s -> %s\n", filepath.Base(mv.Dest), restorePath)
					} else {
						fmt.Fprintf(out, "restored %s -> %s\n", filepath.Base(mv.Dest), restorePath)
					}
					restored++
				}

				if failed > 0 {
					return fmt.Errorf("restored %d of %d files; %d failed", restored, len(moves), failed)
				}

				if dryRun {
					fmt.Fprintln(out, paint(fmt.Sprintf("Would restore %d files from run %s", restored, shortID(run.ID)), ansiGreen, shouldColorize(out)))
					return nil
				}

				if err := store.MarkReverted(cmd.Context(), run.ID); err != nil {
					return err
				}
				line := fmt.Sprintf("Restored %d files from run %s", restored, shortID(run.ID))
				if gone > 0 {
					line = fmt.Sprintf("%s (%d already gone)", line, gone)
				}
				fmt.Fprintln(out, paint(line, ansiGreen, shouldColorize(out)))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview the restore without changing anything")
	return cmd
}

func resolveUndoRun(cmd *cobra.Command, store *journal.Store, args []string) (*journal.Run, error) {
	if len(args) == 1 {
		arg := strings.TrimSpace(args[0])
		run, err := store.Find(cmd.Context(), arg)
		if err != nil {
			return nil, err
		}
		if run == nil {
			return nil, fmt.Errorf("run %q not found", arg)
		}
		if run.Reverted {
			return nil, fmt.Errorf("run %s was already undone", shortID(run.ID))
		}
		return run, nil
	}

	run, err := store.Latest(cmd.Context())
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, errors.New("no runs to undo")
	}
	return run, nil
}
