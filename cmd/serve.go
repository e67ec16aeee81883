package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/mj1618/producer/internal/platform"
	"github.com/mj1618/producer/internal/server"
	"github.com/mj1618/producer/internal/ui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing producer steps as tools",
	Long: `Start a Model Context Protocol (MCP) server that exposes the step
interpreter as tools: run_script, start, write, wait, position, create_window,
close, quit, list_apps and status. One interpreter serves every call, so the
current app carries over between tool calls.

Supported transports:
  stdio             Standard I/O (default)
  streamable-http   Streamable HTTP transport

Examples:
  producer serve
  producer serve --transport streamable-http --port 8080
  producer serve --dry-run`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", server.TransportStdio, "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Bool("dry-run", false, "Record AppleScript to stderr instead of running it")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if !dryRun {
		if err := platform.CheckSupported(runtime.GOOS); err != nil {
			return err
		}
	}

	// stdout belongs to the stdio transport; nothing else may write there.
	s := newSession(newInvoker(dryRun, os.Stderr), ui.Discard())
	srv := server.New(s.interp, s.registry, logger)

	if err := srv.Serve(cmd.Context(), server.Config{Transport: transport, Port: port}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
