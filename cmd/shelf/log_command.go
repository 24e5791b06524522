package main

import (
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"shelf/internal/logs"
	"shelf/internal/walker"
)

func newLogCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the shelf run log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Paths.LogDir, walker.LogFileName)

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return logs.Tail(signalCtx, path, cmd.OutOrStdout(), logs.TailOptions{
				Lines:  lines,
				Follow: follow,
			})
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "Number of trailing log lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing appended log lines")
	return cmd
}
