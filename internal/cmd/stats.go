package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hargabyte/sheet/internal/metrics"
	"github.com/hargabyte/sheet/internal/sheet"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Rank cells by how much of the sheet depends on them",
	Long: `Summarize the sheet's dependency graph and rank cells by PageRank over the
references between them. Cells that many formulas build on rank highest;
a keystone is a high-ranking cell with many direct dependents.`,
	Example: `  sheet stats
  sheet stats --top 3 --format json`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var statsTop int

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().IntVar(&statsTop, "top", 10, "Number of cells to rank (0 for all)")
}

func runStats(cmd *cobra.Command, args []string) error {
	e, err := openEnv(slog.LevelWarn)
	if err != nil {
		return err
	}
	defer e.workbook.Close()

	var report metrics.Report
	err = e.workbook.View(context.Background(), sheetName, func(s *sheet.Spreadsheet) error {
		report = metrics.Compute(s.Graph(), statsTop, metrics.DefaultThresholds())
		return nil
	})
	if err != nil {
		return err
	}
	return e.write(cmd.OutOrStdout(), report)
}
