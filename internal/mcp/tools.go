package mcp

import (
	"context"
	"fmt"

	"github.com/hargabyte/sheet/internal/graph"
	"github.com/hargabyte/sheet/internal/output"
	"github.com/hargabyte/sheet/internal/sheet"
	"github.com/hargabyte/sheet/internal/workbook"
)

// ToolSchema describes a tool's name, description, and parameters.
type ToolSchema struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Parameters  []ParameterSchema `json:"parameters" yaml:"parameters"`
}

// ParameterSchema describes a single tool parameter. Every parameter is a
// string.
type ParameterSchema struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
}

var sheetParam = ParameterSchema{Name: "sheet", Description: "Sheet name (default: the server's sheet)"}

// toolSchemaRegistry is the single definition of every tool; registerTool
// builds the mcp-go tools from it.
var toolSchemaRegistry = map[string]ToolSchema{
	"sheet_set": {
		Name:        "sheet_set",
		Description: "Set a cell to a number, text, or a formula starting with '='. An empty value clears the cell. Returns the cell and every cell that was recalculated.",
		Parameters: []ParameterSchema{
			sheetParam,
			{Name: "cell", Description: "Cell name, e.g. A1", Required: true},
			{Name: "value", Description: "Raw cell contents", Required: true},
		},
	},
	"sheet_get": {
		Name:        "sheet_get",
		Description: "Show a cell's contents and computed value.",
		Parameters: []ParameterSchema{
			sheetParam,
			{Name: "cell", Description: "Cell name", Required: true},
		},
	},
	"sheet_list": {
		Name:        "sheet_list",
		Description: "List every non-empty cell of a sheet with its value.",
		Parameters:  []ParameterSchema{sheetParam},
	},
	"sheet_dependents": {
		Name:        "sheet_dependents",
		Description: "List the cells whose formulas reference a cell directly.",
		Parameters: []ParameterSchema{
			sheetParam,
			{Name: "cell", Description: "Cell name", Required: true},
		},
	},
	"sheet_graph": {
		Name:        "sheet_graph",
		Description: "Render the sheet's formula dependencies as a Mermaid flowchart.",
		Parameters:  []ParameterSchema{sheetParam},
	},
}

// GetToolSchemas returns schemas for all registered tools.
func (s *Server) GetToolSchemas() []ToolSchema {
	tools := s.ListTools()
	schemas := make([]ToolSchema, 0, len(tools))
	for _, name := range tools {
		schemas = append(schemas, toolSchemaRegistry[name])
	}
	return schemas
}

// CallTool dispatches a tool call by name with the given arguments.
// Returns the YAML result string or an error.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	s.mu.RLock()
	registered := s.tools[name]
	s.mu.RUnlock()

	if !registered {
		return "", fmt.Errorf("unknown tool: %s (run 'sheet call --list' to see available tools)", name)
	}
	return s.call(ctx, name, args)
}

func (s *Server) call(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	sheetName, _ := args["sheet"].(string)
	if sheetName == "" {
		sheetName = s.sheet
	}

	switch name {
	case "sheet_set":
		cell, _ := args["cell"].(string)
		if cell == "" {
			return "", fmt.Errorf("cell parameter is required")
		}
		value, ok := args["value"].(string)
		if !ok {
			return "", fmt.Errorf("value parameter is required")
		}
		return s.executeSet(ctx, sheetName, cell, value)

	case "sheet_get":
		cell, _ := args["cell"].(string)
		if cell == "" {
			return "", fmt.Errorf("cell parameter is required")
		}
		return s.executeGet(ctx, sheetName, cell)

	case "sheet_list":
		return s.executeList(ctx, sheetName)

	case "sheet_dependents":
		cell, _ := args["cell"].(string)
		if cell == "" {
			return "", fmt.Errorf("cell parameter is required")
		}
		return s.executeDependents(ctx, sheetName, cell)

	case "sheet_graph":
		return s.executeGraph(ctx, sheetName)

	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

func render(v interface{}) (string, error) {
	return output.NewYAMLFormatter().Format(v)
}

func view(c workbook.Cell) output.CellView {
	return output.NewCellView(c.Name, c.Contents, c.Value, c.Present)
}

func (s *Server) executeSet(ctx context.Context, sheetName, cell, value string) (string, error) {
	c, recalculated, err := s.workbook.Set(ctx, sheetName, cell, value)
	if err != nil {
		return "", err
	}
	return render(output.SetResult{Cell: view(c), Recalculated: recalculated})
}

func (s *Server) executeGet(ctx context.Context, sheetName, cell string) (string, error) {
	c, err := s.workbook.Get(ctx, sheetName, cell)
	if err != nil {
		return "", err
	}
	return render(view(c))
}

func (s *Server) executeList(ctx context.Context, sheetName string) (string, error) {
	cells, err := s.workbook.Cells(ctx, sheetName)
	if err != nil {
		return "", err
	}

	list := output.ListOutput{Sheet: sheetName, Cells: make([]output.CellView, 0, len(cells))}
	for _, c := range cells {
		list.Cells = append(list.Cells, view(c))
	}
	return render(list)
}

func (s *Server) executeDependents(ctx context.Context, sheetName, cell string) (string, error) {
	deps, err := s.workbook.Dependents(ctx, sheetName, cell)
	if err != nil {
		return "", err
	}
	return render(output.DependentsOutput{Cell: cell, Dependents: deps})
}

func (s *Server) executeGraph(ctx context.Context, sheetName string) (string, error) {
	var diagram string
	err := s.workbook.View(ctx, sheetName, func(sh *sheet.Spreadsheet) error {
		diagram = graph.GenerateMermaid(sh.Graph(), &graph.MermaidOptions{
			Direction: "LR",
			Title:     sheetName,
			Kinds:     sh.NodeKinds(),
		})
		return nil
	})
	return diagram, err
}
