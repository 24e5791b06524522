package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"shelf/internal/events"
	"shelf/internal/journal"
	"shelf/internal/logging"
	"shelf/internal/organize"
	"shelf/internal/preflight"
	"shelf/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var recursive bool

	cmd := &cobra.Command{
		Use:   "watch [directory]",
		Short: "Keep a directory organized on a poll interval",
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

			var store *journal.Store
			if !dryRun {
				store, err = journal.Open(cfg)
				if err != nil {
					logger.Warn("journal unavailable", logging.Error(err))
					store = nil
				} else {
					defer store.Close()
				}
			}

			req := organize.Request{Dir: target, DryRun: dryRun, Recursive: recursive}
			watcher, err := watch.New(cfg, org, store, logging.NewComponentLogger(logger, "watch"), req)
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return watcher.Run(signalCtx)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log would-be moves without changing anything")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Organize subdirectories too")
	return cmd
}
