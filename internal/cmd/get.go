package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <cell>",
	Short: "Show a cell's contents and value",
	Long: `Show a cell's contents, kind and computed value.

A cell that was never set is shown with kind "empty".`,
	Example: `  sheet get A2
  sheet --format json get A2`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	e, err := openEnv(slog.LevelWarn)
	if err != nil {
		return err
	}
	defer e.workbook.Close()

	cell, err := e.workbook.Get(context.Background(), sheetName, args[0])
	if err != nil {
		return err
	}
	return e.write(cmd.OutOrStdout(), cellView(cell))
}
