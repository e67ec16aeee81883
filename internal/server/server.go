// Package server exposes the step interpreter as MCP tools, so an agent can
// drive a terminal one step at a time or hand over a whole script.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/producer/internal/runner"
	"github.com/mj1618/producer/internal/version"
)

// Transports accepted by Serve.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "streamable-http"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
}

// Lister reports the registered app names. *apps.Registry implements it.
type Lister interface {
	List() []string
}

// Server wraps one Interpreter. Tool calls are serialized on interpMu because
// the interpreter, and the GUI it drives, can only do one thing at a time.
type Server struct {
	interp   *runner.Interpreter
	apps     Lister
	logger   *log.Logger
	interpMu sync.Mutex
	mcp      *mcpserver.MCPServer
}

// New creates a Server with all producer tools registered.
func New(interp *runner.Interpreter, apps Lister, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		interp: interp,
		apps:   apps,
		logger: logger,
		mcp:    mcpserver.NewMCPServer("producer", version.Version),
	}
	s.registerTools()
	return s
}

// MCP returns the underlying mcp-go server.
func (s *Server) MCP() *mcpserver.MCPServer {
	return s.mcp
}

// Serve blocks serving cfg.Transport until ctx is cancelled or the
// transport fails.
func (s *Server) Serve(ctx context.Context, cfg Config) error {
	switch cfg.Transport {
	case "", TransportStdio:
		s.logger.Debug("serving MCP on stdio")
		return mcpserver.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
	case TransportHTTP:
		return s.serveHTTP(ctx, fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *Server) serveHTTP(ctx context.Context, addr string) error {
	httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening", "transport", TransportHTTP, "address", addr)
		errCh <- httpServer.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("run_script",
			mcp.WithDescription("Run a producer script. Pass either a path to a YAML file or the YAML itself. Returns the run report."),
			mcp.WithString("path", mcp.Description("Path to a script file")),
			mcp.WithString("yaml", mcp.Description("Inline script YAML")),
			mcp.WithBoolean("reset", mcp.Description("Forget the current app before running")),
		),
		s.handleRunScript,
	)

	s.mcp.AddTool(
		mcp.NewTool("start",
			mcp.WithDescription("Activate (or launch) an app, open a new window, and make it the current app"),
			mcp.WithString("app", mcp.Description("App name (default: configured default app)")),
		),
		s.handleStep("start"),
	)

	s.mcp.AddTool(
		mcp.NewTool("write",
			mcp.WithDescription("Type text into the focused window of the current app and press Return"),
			mcp.WithString("text", mcp.Required(), mcp.Description("Text to type")),
			mcp.WithBoolean("escape", mcp.Description("Escape quotes and backslashes before typing")),
		),
		s.handleStep("write"),
	)

	s.mcp.AddTool(
		mcp.NewTool("wait",
			mcp.WithDescription("Pause for a number of seconds"),
			mcp.WithNumber("duration", mcp.Description("Seconds to wait (default 0.5)")),
		),
		s.handleStep("wait"),
	)

	s.mcp.AddTool(
		mcp.NewTool("position",
			mcp.WithDescription("Move and resize the frontmost window: center center, top left, top right, bottom left, bottom right, or an \"x y\" pair"),
			mcp.WithString("position", mcp.Description("Layout (default: center center)")),
			mcp.WithNumber("width", mcp.Description("Window width in pixels")),
			mcp.WithNumber("height", mcp.Description("Window height in pixels")),
		),
		s.handleStep("position"),
	)

	s.mcp.AddTool(
		mcp.NewTool("create_window",
			mcp.WithDescription("Open another window in the current app"),
			mcp.WithString("profile", mcp.Description("Profile name (default: default profile)")),
		),
		s.handleStep("create_window"),
	)

	s.mcp.AddTool(
		mcp.NewTool("close",
			mcp.WithDescription("Close the current window of the current app"),
		),
		s.handleStep("close"),
	)

	s.mcp.AddTool(
		mcp.NewTool("quit",
			mcp.WithDescription("Quit the current app and clear it"),
		),
		s.handleStep("quit"),
	)

	s.mcp.AddTool(
		mcp.NewTool("list_apps",
			mcp.WithDescription("List the app names with a registered handler"),
		),
		s.handleListApps,
	)

	s.mcp.AddTool(
		mcp.NewTool("status",
			mcp.WithDescription("Report the interpreter state and the current app"),
		),
		s.handleStatus,
	)
}
