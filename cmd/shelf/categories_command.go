package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCategoriesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Show the category table in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			table, err := cfg.CategoryTable()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(table.Names()))
			for _, cat := range table.Categories() {
				extensions := strings.Join(cat.Extensions, ", ")
				if len(cat.Extensions) == 0 {
					extensions = "(everything else)"
				}
				rows = append(rows, []string{cat.Name, extensions})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Category", "Extensions"}, rows))
			return nil
		},
	}
}
