package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hargabyte/sheet/internal/output"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the non-empty cells of a sheet",
	Long: `List every non-empty cell of the sheet selected by --sheet, sorted by
name. With --sheets, list the names of all stored sheets instead.`,
	Example: `  sheet list
  sheet --sheet budget list
  sheet list --sheets`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var listSheets bool

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listSheets, "sheets", false, "List stored sheet names")
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := openEnv(slog.LevelWarn)
	if err != nil {
		return err
	}
	defer e.workbook.Close()

	ctx := context.Background()
	if listSheets {
		names, err := e.workbook.Sheets(ctx)
		if err != nil {
			return err
		}
		return e.write(cmd.OutOrStdout(), map[string][]string{"sheets": names})
	}

	cells, err := e.workbook.Cells(ctx, sheetName)
	if err != nil {
		return err
	}
	list := output.ListOutput{Sheet: sheetName, Cells: make([]output.CellView, 0, len(cells))}
	for _, c := range cells {
		list.Cells = append(list.Cells, cellView(c))
	}
	return e.write(cmd.OutOrStdout(), list)
}
