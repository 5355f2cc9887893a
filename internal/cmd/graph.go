package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hargabyte/sheet/internal/graph"
	"github.com/hargabyte/sheet/internal/sheet"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Render the sheet's dependencies as a diagram",
	Long: `Render the formula dependencies of a sheet as a Mermaid flowchart, or as
a D2 diagram with --d2.

Arrows point from a referenced cell to the formula that references it, the
direction values flow. Node shapes show the cell kind: rounded for formulas,
slanted for text, hexagons for references to empty cells.`,
	Example: `  sheet graph
  sheet graph --direction TD > deps.mmd
  sheet graph --d2 | d2 - deps.svg`,
	Args: cobra.NoArgs,
	RunE: runGraph,
}

var (
	graphDirection string
	graphD2        bool
)

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringVar(&graphDirection, "direction", "LR", "Layout direction (LR|TD)")
	graphCmd.Flags().BoolVar(&graphD2, "d2", false, "Output D2 instead of Mermaid")
}

func runGraph(cmd *cobra.Command, args []string) error {
	direction := strings.ToUpper(graphDirection)
	if direction != "LR" && direction != "TD" {
		return fmt.Errorf("invalid direction %q (expected LR or TD)", graphDirection)
	}

	e, err := openEnv(slog.LevelWarn)
	if err != nil {
		return err
	}
	defer e.workbook.Close()

	var diagram string
	err = e.workbook.View(context.Background(), sheetName, func(s *sheet.Spreadsheet) error {
		if graphD2 {
			d2Direction := "right"
			if direction == "TD" {
				d2Direction = "down"
			}
			diagram = graph.GenerateD2(s.Graph(), &graph.D2Options{
				Direction: d2Direction,
				Title:     sheetName,
				Kinds:     s.NodeKinds(),
			})
			return nil
		}
		diagram = graph.GenerateMermaid(s.Graph(), &graph.MermaidOptions{
			Direction: direction,
			Title:     sheetName,
			Kinds:     s.NodeKinds(),
		})
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), diagram)
	return nil
}
