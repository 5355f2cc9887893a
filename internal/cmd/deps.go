package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hargabyte/sheet/internal/graph"
	"github.com/hargabyte/sheet/internal/output"
	"github.com/hargabyte/sheet/internal/sheet"
)

var depsCmd = &cobra.Command{
	Use:   "deps <cell>",
	Short: "List the cells whose formulas reference a cell",
	Long: `List the cells whose formulas reference the given cell directly.

With --all, list every cell that would be recalculated when the cell
changes, nearest first.`,
	Example: `  sheet deps A1
  sheet deps A1 --all`,
	Args: cobra.ExactArgs(1),
	RunE: runDeps,
}

var depsAll bool

func init() {
	rootCmd.AddCommand(depsCmd)
	depsCmd.Flags().BoolVar(&depsAll, "all", false, "Include indirect dependents")
}

func runDeps(cmd *cobra.Command, args []string) error {
	e, err := openEnv(slog.LevelWarn)
	if err != nil {
		return err
	}
	defer e.workbook.Close()

	ctx := context.Background()
	if !depsAll {
		deps, err := e.workbook.Dependents(ctx, sheetName, args[0])
		if err != nil {
			return err
		}
		return e.write(cmd.OutOrStdout(), output.DependentsOutput{Cell: args[0], Dependents: deps})
	}

	var result output.DependentsOutput
	err = e.workbook.View(ctx, sheetName, func(s *sheet.Spreadsheet) error {
		name, ok := s.Policy().Canonical(args[0])
		if !ok {
			return &sheet.InvalidNameError{Name: args[0]}
		}
		result = output.DependentsOutput{Cell: name, Dependents: graph.Reachable(s.Graph(), name)}
		return nil
	})
	if err != nil {
		return err
	}
	return e.write(cmd.OutOrStdout(), result)
}
