package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/hargabyte/sheet/internal/api"
	"github.com/hargabyte/sheet/internal/mcp"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve sheets over HTTP or MCP",
	Long: `Serve the sheets in .sheet/ to other programs.

--http starts a REST API on server.addr (override with --addr):

  POST /api/v1/:sheet/:cell              {"value": "=A1+1"}  set a cell
  GET  /api/v1/:sheet/:cell              show a cell
  GET  /api/v1/:sheet                    list a sheet
  GET  /api/v1/:sheet/:cell/dependents   direct dependents
  GET  /healthcheck

--mcp starts an MCP (Model Context Protocol) server on stdio so AI agents
can edit sheets through tools instead of spawning CLI commands.

Available Tools:
  sheet_set          Set a cell and recalculate
  sheet_get          Show a cell
  sheet_list         List a sheet
  sheet_dependents   Direct dependents of a cell
  sheet_graph        Mermaid dependency diagram`,
	Example: `  sheet serve --http
  sheet serve --http --addr :9000
  sheet serve --mcp --tools set,get --timeout 30m
  sheet serve --list-tools`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveHTTP      bool
	serveMCP       bool
	serveAddr      string
	serveTools     string
	serveTimeout   string
	serveListTools bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveHTTP, "http", false, "Start the REST API")
	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "Start MCP server (stdio transport)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address (default: server.addr from config)")
	serveCmd.Flags().StringVar(&serveTools, "tools", "", "Comma-separated list of MCP tools to expose (default: all)")
	serveCmd.Flags().StringVar(&serveTimeout, "timeout", "0", "MCP inactivity timeout (0 for no timeout)")
	serveCmd.Flags().BoolVar(&serveListTools, "list-tools", false, "List available MCP tools")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveListTools {
		for _, t := range mcp.AllTools {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
		return nil
	}

	switch {
	case serveHTTP && serveMCP:
		return fmt.Errorf("use either --http or --mcp, not both")
	case serveHTTP:
		return runServeHTTP()
	case serveMCP:
		return runServeMCP()
	default:
		return fmt.Errorf("use --http or --mcp to start a server, or --help for usage")
	}
}

func runServeHTTP() error {
	e, err := openEnv(slog.LevelInfo)
	if err != nil {
		return err
	}
	defer e.workbook.Close()

	addr := e.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.NewController(e.workbook), e.logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return api.ListenAndServe(ctx, addr, router, e.logger)
}

func runServeMCP() error {
	timeout, err := parseDuration(serveTimeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}

	e, err := openEnv(slog.LevelInfo)
	if err != nil {
		return err
	}
	defer e.workbook.Close()

	server, err := mcp.New(e.workbook, mcp.Config{
		Tools:   parseTools(serveTools),
		Timeout: timeout,
		Sheet:   sheetName,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	// stdout carries the MCP protocol, so logs stay on stderr.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		e.logger.Info("shutting down")
		e.workbook.Close()
		os.Exit(0)
	}()

	e.logger.Info("starting MCP server", "tools", server.ListTools(), "timeout", timeout)
	return server.ServeStdio()
}

// parseTools splits a comma-separated tool list, accepting shorthand names.
func parseTools(s string) []string {
	var tools []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tools = append(tools, normalizeToolName(t))
		}
	}
	return tools
}

func parseDuration(s string) (time.Duration, error) {
	if s == "0" || s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
