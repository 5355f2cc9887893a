package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hargabyte/sheet/internal/graph"
	"github.com/hargabyte/sheet/internal/sheet"
)

var traceCmd = &cobra.Command{
	Use:   "trace <from> <to>",
	Short: "Show how one cell's value depends on another",
	Long: `Show the reference chains through which the formula in <from> depends on
<to>: <from> references the second cell, which references the third, and so
on until <to>. By default only the shortest chain is shown.`,
	Example: `  sheet trace C1 A1
  sheet trace C1 A1 --all --depth 5`,
	Args: cobra.ExactArgs(2),
	RunE: runTrace,
}

var (
	traceAll   bool
	traceDepth int
)

// TraceOutput lists reference chains between two cells.
type TraceOutput struct {
	From  string       `yaml:"from" json:"from"`
	To    string       `yaml:"to" json:"to"`
	Paths []graph.Path `yaml:"paths" json:"paths"`
}

func init() {
	rootCmd.AddCommand(traceCmd)
	traceCmd.Flags().BoolVar(&traceAll, "all", false, "Show every chain, not only the shortest")
	traceCmd.Flags().IntVar(&traceDepth, "depth", 10, "Maximum chain length with --all")
}

func runTrace(cmd *cobra.Command, args []string) error {
	e, err := openEnv(slog.LevelWarn)
	if err != nil {
		return err
	}
	defer e.workbook.Close()

	var result TraceOutput
	err = e.workbook.View(context.Background(), sheetName, func(s *sheet.Spreadsheet) error {
		from, ok := s.Policy().Canonical(args[0])
		if !ok {
			return &sheet.InvalidNameError{Name: args[0]}
		}
		to, ok := s.Policy().Canonical(args[1])
		if !ok {
			return &sheet.InvalidNameError{Name: args[1]}
		}

		result = TraceOutput{From: from, To: to, Paths: []graph.Path{}}
		g := s.Graph()
		if traceAll {
			result.Paths = append(result.Paths, graph.AllPaths(g, from, to, traceDepth)...)
		} else if p := graph.ShortestPath(g, from, to); p != nil {
			result.Paths = append(result.Paths, p)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(result.Paths) == 0 {
		return fmt.Errorf("%s does not depend on %s", result.From, result.To)
	}
	return e.write(cmd.OutOrStdout(), result)
}
