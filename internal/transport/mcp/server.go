// Package mcp exposes the chat tool registry to MCP clients over streamable HTTP.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/bconnected/marketplace/internal/logger"
	"github.com/bconnected/marketplace/internal/usecase/tools"
)

// ServerName identifies the service during MCP initialization.
const ServerName = "bconnected"

// Registry lists and runs tools.
type Registry interface {
	Definitions() []tools.Definition
	Execute(ctx context.Context, name string, args json.RawMessage) (any, error)
}

// NewServer registers every registry tool on a new MCP server.
func NewServer(reg Registry, version string, log *zap.Logger) (*server.MCPServer, error) {
	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(false),
		server.WithInstructions("B-Connected expert marketplace: search the expert directory."),
		server.WithRecovery(),
	)

	for _, def := range reg.Definitions() {
		schema, err := json.Marshal(def.Parameters)
		if err != nil {
			return nil, fmt.Errorf("encode %s schema: %w", def.Name, err)
		}
		s.AddTool(mcp.NewToolWithRawSchema(def.Name, def.Description, schema), toolHandler(reg, def.Name, log))
	}
	return s, nil
}

// Handler serves s over streamable HTTP.
func Handler(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s)
}

func toolHandler(reg Registry, name string, log *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := rawArguments(req.Params.Arguments)
		if err != nil {
			return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		result, err := reg.Execute(ctx, name, args)
		if err != nil {
			logger.FromContextOr(ctx, log).Info("mcp tool failed", zap.String("tool", name), zap.Error(err))
			return toolError(err.Error()), nil
		}

		b, err := json.Marshal(result)
		if err != nil {
			return toolError(fmt.Sprintf("encode result: %v", err)), nil
		}
		return toolText(string(b)), nil
	}
}

func rawArguments(args any) (json.RawMessage, error) {
	if args == nil {
		return json.RawMessage("{}"), nil
	}
	if raw, ok := args.(json.RawMessage); ok {
		return raw, nil
	}
	b, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
