package server

import (
	"context"
	"fmt"
	"maps"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/producer/internal/output"
	"github.com/mj1618/producer/internal/script"
)

// Status is the result of the status tool.
type Status struct {
	State string `yaml:"state"         json:"state"`
	App   string `yaml:"app,omitempty" json:"app,omitempty"`
}

// toText serializes v to YAML for an MCP response.
func toText(v any) string {
	s, err := output.YAMLString(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return s
}

func (s *Server) handleRunScript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	path := script.StringParam(params, "path", "")
	inline := script.StringParam(params, "yaml", "")

	var (
		sc  *script.Script
		err error
	)
	switch {
	case path != "" && inline != "":
		return mcp.NewToolResultError("pass either path or yaml, not both"), nil
	case path != "":
		sc, err = script.Load(path)
	case inline != "":
		sc, err = script.Parse([]byte(inline))
	default:
		return mcp.NewToolResultError("path or yaml is required"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.interpMu.Lock()
	defer s.interpMu.Unlock()

	if script.BoolParam(params, "reset", false) {
		s.interp.Reset()
	}
	report, err := s.interp.Run(ctx, sc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%v\n%s", err, toText(report))), nil
	}
	return mcp.NewToolResultText(toText(report)), nil
}

// handleStep returns a handler that dispatches one step of the given action
// built from the tool arguments.
func (s *Server) handleStep(action string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw := maps.Clone(request.GetArguments())
		if raw == nil {
			raw = map[string]any{}
		}
		raw["action"] = action

		step, err := script.DecodeStep(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		s.interpMu.Lock()
		defer s.interpMu.Unlock()

		if err := ctx.Err(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		result := s.interp.Exec(ctx, step)
		if !result.OK {
			return mcp.NewToolResultError(toText(result)), nil
		}
		return mcp.NewToolResultText(toText(result)), nil
	}
}

func (s *Server) handleListApps(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(toText(s.apps.List())), nil
}

func (s *Server) handleStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.interpMu.Lock()
	defer s.interpMu.Unlock()

	st := Status{State: s.interp.State().String()}
	if app := s.interp.Current(); app != nil {
		st.App = app.Name()
	}
	return mcp.NewToolResultText(toText(st)), nil
}
