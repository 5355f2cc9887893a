package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hargabyte/sheet/internal/sheet"
	"github.com/hargabyte/sheet/internal/xlsx"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a sheet to an Excel workbook",
	Long: `Write the sheet selected by --sheet to an .xlsx workbook with one row per
cell and the columns Name, Contents and Value.`,
	Example: `  sheet export --xlsx budget.xlsx
  sheet --sheet q3 export --xlsx q3.xlsx --worksheet Q3`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace a sheet with the cells of an Excel workbook",
	Long: `Read Name and Contents columns written by 'sheet export' and replace the
sheet selected by --sheet with them. Formulas may reference cells listed
further down. If any row is invalid or the formulas form a cycle, nothing
is changed.`,
	Example: `  sheet import --xlsx budget.xlsx
  sheet --sheet q3 import --xlsx q3.xlsx --worksheet Q3`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

var (
	xlsxPath      string
	xlsxWorksheet string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)

	for _, c := range []*cobra.Command{exportCmd, importCmd} {
		c.Flags().StringVar(&xlsxPath, "xlsx", "", "Path of the .xlsx file")
		c.Flags().StringVar(&xlsxWorksheet, "worksheet", "", "Worksheet name (default: the sheet name on export, the first worksheet on import)")
		c.MarkFlagRequired("xlsx")
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	e, err := openEnv(slog.LevelWarn)
	if err != nil {
		return err
	}
	defer e.workbook.Close()

	worksheet := xlsxWorksheet
	if worksheet == "" {
		worksheet = sheetName
	}

	var cells int
	err = e.workbook.View(context.Background(), sheetName, func(s *sheet.Spreadsheet) error {
		cells = len(s.NamesOfAllNonemptyCells())
		return xlsx.Export(xlsxPath, worksheet, s)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d cells to %s\n", cells, xlsxPath)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	entries, err := xlsx.Import(xlsxPath, xlsxWorksheet)
	if err != nil {
		return err
	}

	e, err := openEnv(slog.LevelWarn)
	if err != nil {
		return err
	}
	defer e.workbook.Close()

	if err := e.workbook.Replace(context.Background(), sheetName, entries); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d cells into %s\n", len(entries), sheetName)
	return nil
}
