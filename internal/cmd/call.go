package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hargabyte/sheet/internal/mcp"
)

var (
	callList bool
	callPipe bool
)

var callCmd = &cobra.Command{
	Use:   "call [tool] [json-args]",
	Short: "Call an MCP tool from the command line",
	Long: `Call any sheet MCP tool with JSON arguments, without starting a server.

Modes:
  sheet call --list                          List all tools and parameters
  sheet call <tool> '{"key":"value"}'        Call a tool with JSON args
  sheet call --pipe                          Read JSON lines from stdin

Tool names accept shorthand: "set" is equivalent to "sheet_set".`,
	Example: `  sheet call --list
  sheet call set '{"cell":"A1","value":"=B1*2"}'
  sheet call get '{"cell":"A1","sheet":"budget"}'
  echo '{"tool":"sheet_list","args":{}}' | sheet call --pipe`,
	Args: cobra.MaximumNArgs(2),
	RunE: runCall,
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().BoolVar(&callList, "list", false, "List all available tools and their parameters")
	callCmd.Flags().BoolVar(&callPipe, "pipe", false, "Read JSON lines from stdin (pipe mode)")
}

func runCall(cmd *cobra.Command, args []string) error {
	if !callList && !callPipe && len(args) == 0 {
		return fmt.Errorf("tool name required (run 'sheet call --list' to see available tools)")
	}

	e, err := openEnv(slog.LevelWarn)
	if err != nil {
		return err
	}
	defer e.workbook.Close()

	srv, err := mcp.New(e.workbook, mcp.Config{Sheet: sheetName})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	switch {
	case callList:
		return runCallList(cmd.OutOrStdout(), srv)
	case callPipe:
		return runCallPipe(cmd.InOrStdin(), cmd.OutOrStdout(), srv)
	default:
		return runCallSingle(cmd.OutOrStdout(), srv, args)
	}
}

func runCallList(w io.Writer, srv *mcp.Server) error {
	schemas := srv.GetToolSchemas()

	if outputFormat == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(schemas)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(schemas)
}

func runCallSingle(w io.Writer, srv *mcp.Server, args []string) error {
	toolName := normalizeToolName(args[0])

	toolArgs := make(map[string]interface{})
	if len(args) >= 2 {
		if err := json.Unmarshal([]byte(args[1]), &toolArgs); err != nil {
			return fmt.Errorf("invalid JSON args: %w", err)
		}
	}

	result, err := srv.CallTool(context.Background(), toolName, toolArgs)
	if err != nil {
		return err
	}

	fmt.Fprint(w, result)
	return nil
}

// pipeRequest is the JSON format for pipe mode input.
type pipeRequest struct {
	Tool string                 `json:"tool"`
	Args map[string]interface{} `json:"args"`
}

// pipeResponse is the JSON format for pipe mode output. Result holds the
// tool's YAML text.
type pipeResponse struct {
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func runCallPipe(r io.Reader, w io.Writer, srv *mcp.Server) error {
	enc := json.NewEncoder(w)
	scanner := bufio.NewScanner(r)
	// Allow larger lines (1MB)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req pipeRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			enc.Encode(pipeResponse{Error: fmt.Sprintf("invalid JSON: %v", err)})
			continue
		}
		if req.Args == nil {
			req.Args = make(map[string]interface{})
		}

		result, err := srv.CallTool(context.Background(), normalizeToolName(req.Tool), req.Args)
		if err != nil {
			enc.Encode(pipeResponse{Error: err.Error()})
			continue
		}
		enc.Encode(pipeResponse{Result: result})
	}

	return scanner.Err()
}

// normalizeToolName converts shorthand names to full tool names.
// "set" -> "sheet_set", "sheet_set" -> "sheet_set"
func normalizeToolName(name string) string {
	if !strings.HasPrefix(name, "sheet_") {
		return "sheet_" + name
	}
	return name
}
