package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hargabyte/sheet/internal/output"
)

var setCmd = &cobra.Command{
	Use:   "set <cell> <contents>",
	Short: "Set a cell and recalculate its dependents",
	Long: `Set a cell to a number, text, or a formula starting with '='.

An empty contents argument clears the cell. The output shows the cell and
every cell that was re-evaluated, in the order they were computed.

A formula that would make a cell depend on itself is rejected and the sheet
is left unchanged. A formula that cannot be evaluated, for example because
it divides by zero or references a text cell, is stored and its value is an
error.`,
	Example: `  sheet set A1 20
  sheet set A2 '=A1/4'
  sheet set B1 'Quarterly total'
  sheet set A2 ''`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	e, err := openEnv(slog.LevelWarn)
	if err != nil {
		return err
	}
	defer e.workbook.Close()

	cell, recalculated, err := e.workbook.Set(context.Background(), sheetName, args[0], args[1])
	if err != nil {
		return err
	}
	return e.write(cmd.OutOrStdout(), output.SetResult{Cell: cellView(cell), Recalculated: recalculated})
}
