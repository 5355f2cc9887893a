package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hargabyte/sheet/internal/graph"
	"github.com/hargabyte/sheet/internal/metrics"
	"github.com/hargabyte/sheet/internal/output"
	"github.com/hargabyte/sheet/internal/sheet"
)

// resetFlags restores every flag variable, since rootCmd is shared between
// executions.
func resetFlags() {
	verbose, configPath, forAgents, outputFormat, sheetName = false, "", false, "", "default"
	initBackend = ""
	listSheets = false
	depsAll = false
	graphDirection, graphD2 = "LR", false
	traceAll, traceDepth = false, 10
	statsTop = 10
	xlsxPath, xlsxWorksheet = "", ""
	serveHTTP, serveMCP, serveAddr, serveTools, serveTimeout, serveListTools = false, false, "", "", "0", false
	callList, callPipe = false, false
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func initWorkspace(t *testing.T, backend string) {
	t.Helper()
	t.Chdir(t.TempDir())
	out, err := runCLI(t, "", "init", "--backend", backend)
	require.NoError(t, err)
	require.Contains(t, out, "Initialized sheet ("+backend+" storage)")
}

func TestInit_Twice(t *testing.T) {
	initWorkspace(t, "sqlite")

	out, err := runCLI(t, "", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Already initialized")
	assert.FileExists(t, filepath.Join(".sheet", "sheet.db"))
}

func TestInit_UnknownBackend(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := runCLI(t, "", "init", "--backend", "tape")
	assert.Error(t, err)
	assert.NoDirExists(t, ".sheet")
}

func TestNotInitialized(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := runCLI(t, "", "get", "A1")
	assert.ErrorContains(t, err, "sheet init")
}

func TestSetGetList(t *testing.T) {
	initWorkspace(t, "sqlite")

	_, err := runCLI(t, "", "set", "A1", "20")
	require.NoError(t, err)

	out, err := runCLI(t, "", "set", "A2", "=A1/4")
	require.NoError(t, err)
	var result output.SetResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &result))
	assert.Equal(t, []string{"A2"}, result.Recalculated)
	require.NotNil(t, result.Cell.Value)
	assert.Equal(t, 5.0, *result.Cell.Value)

	out, err = runCLI(t, "", "set", "A1", "8")
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal([]byte(out), &result))
	assert.Equal(t, []string{"A1", "A2"}, result.Recalculated)

	out, err = runCLI(t, "", "--format", "json", "get", "A2")
	require.NoError(t, err)
	var cell output.CellView
	require.NoError(t, json.Unmarshal([]byte(out), &cell))
	assert.Equal(t, "formula", cell.Kind)
	require.NotNil(t, cell.Value)
	assert.Equal(t, 2.0, *cell.Value)

	out, err = runCLI(t, "", "get", "Z1")
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal([]byte(out), &cell))
	assert.Equal(t, "empty", cell.Kind)

	out, err = runCLI(t, "", "list")
	require.NoError(t, err)
	var list output.ListOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &list))
	assert.Equal(t, "default", list.Sheet)
	assert.Len(t, list.Cells, 2)

	out, err = runCLI(t, "", "list", "--sheets")
	require.NoError(t, err)
	assert.Contains(t, out, "- default")
}

func TestSet_Rejected(t *testing.T) {
	initWorkspace(t, "yaml")

	_, err := runCLI(t, "", "set", "A1", "=B1+1")
	require.NoError(t, err)

	_, err = runCLI(t, "", "set", "B1", "=A1")
	assert.ErrorIs(t, err, sheet.ErrCircularDependency)

	_, err = runCLI(t, "", "set", "C1", "=(1")
	assert.Error(t, err)

	_, err = runCLI(t, "", "--sheet", "../up", "set", "A1", "1")
	assert.Error(t, err)

	out, err := runCLI(t, "", "get", "B1")
	require.NoError(t, err)
	assert.Contains(t, out, "kind: empty")
}

func TestDepsAndGraph(t *testing.T) {
	initWorkspace(t, "yaml")

	for _, args := range [][]string{
		{"set", "A1", "1"},
		{"set", "B1", "=A1*2"},
		{"set", "C1", "=B1+1"},
	} {
		_, err := runCLI(t, "", args...)
		require.NoError(t, err)
	}

	out, err := runCLI(t, "", "deps", "A1")
	require.NoError(t, err)
	var deps output.DependentsOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &deps))
	assert.Equal(t, []string{"B1"}, deps.Dependents)

	out, err = runCLI(t, "", "deps", "A1", "--all")
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal([]byte(out), &deps))
	assert.Equal(t, []string{"B1", "C1"}, deps.Dependents)

	out, err = runCLI(t, "", "graph", "--direction", "td")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "flowchart TD\n"))
	assert.Contains(t, out, "A1 --> B1")

	out, err = runCLI(t, "", "graph", "--d2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "direction: right\n"))
	assert.Contains(t, out, "B1 -> C1")

	_, err = runCLI(t, "", "graph", "--direction", "up")
	assert.Error(t, err)

	out, err = runCLI(t, "", "trace", "C1", "A1")
	require.NoError(t, err)
	var trace TraceOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &trace))
	assert.Equal(t, []graph.Path{{"C1", "B1", "A1"}}, trace.Paths)

	out, err = runCLI(t, "", "trace", "C1", "A1", "--all")
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal([]byte(out), &trace))
	assert.Len(t, trace.Paths, 1)

	_, err = runCLI(t, "", "trace", "A1", "C1")
	assert.ErrorContains(t, err, "A1 does not depend on C1")

	out, err = runCLI(t, "", "stats", "--top", "1")
	require.NoError(t, err)
	var report metrics.Report
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	assert.Equal(t, 3, report.Stats.Cells)
	require.Len(t, report.Top, 1)
	assert.Equal(t, "A1", report.Top[0].Cell)
}

func TestExportImport(t *testing.T) {
	initWorkspace(t, "bolt")

	for _, args := range [][]string{
		{"set", "A1", "6"},
		{"set", "A2", "=A1*7"},
		{"set", "B1", "note"},
	} {
		_, err := runCLI(t, "", args...)
		require.NoError(t, err)
	}

	path := filepath.Join(t.TempDir(), "out.xlsx")
	out, err := runCLI(t, "", "export", "--xlsx", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 3 cells")

	out, err = runCLI(t, "", "--sheet", "copy", "import", "--xlsx", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 cells into copy")

	out, err = runCLI(t, "", "--sheet", "copy", "get", "A2")
	require.NoError(t, err)
	var cell output.CellView
	require.NoError(t, yaml.Unmarshal([]byte(out), &cell))
	require.NotNil(t, cell.Value)
	assert.Equal(t, 42.0, *cell.Value)
}

func TestCall(t *testing.T) {
	initWorkspace(t, "yaml")

	out, err := runCLI(t, "", "call", "set", `{"cell":"A1","value":"3"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "recalculated:")

	out, err = runCLI(t, "", "call", "sheet_get", `{"cell":"A1"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "contents: \"3\"")

	_, err = runCLI(t, "", "call", "get", `{not json}`)
	assert.ErrorContains(t, err, "invalid JSON args")

	_, err = runCLI(t, "", "call")
	assert.ErrorContains(t, err, "tool name required")

	out, err = runCLI(t, "", "call", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "name: sheet_dependents")

	stdin := `{"tool":"get","args":{"cell":"A1"}}` + "\n" + `{"tool":"nope"}` + "\n"
	out, err = runCLI(t, stdin, "call", "--pipe")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var first, second pipeResponse
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Contains(t, first.Result, "name: A1")
	assert.Contains(t, second.Error, "unknown tool")
}

func TestServe_RequiresMode(t *testing.T) {
	_, err := runCLI(t, "", "serve")
	assert.ErrorContains(t, err, "--http or --mcp")

	out, err := runCLI(t, "", "serve", "--list-tools")
	require.NoError(t, err)
	assert.Contains(t, out, "sheet_graph")
}

func TestNormalizeToolName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"set", "sheet_set"},
		{"sheet_set", "sheet_set"},
		{"graph", "sheet_graph"},
		{"nonexistent", "sheet_nonexistent"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeToolName(tt.input), tt.input)
	}

	assert.Equal(t, []string{"sheet_get", "sheet_set"}, parseTools(" get, sheet_set ,"))
	assert.Nil(t, parseTools(""))
}
