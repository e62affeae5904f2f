// Package mcpserver exposes the database browser, announcements and node
// warnings as MCP tools so agents can inspect the panel.
package mcpserver

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"hostpanel/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server is the MCP server for hostpanel.
type Server struct {
	mcp    *server.MCPServer
	logger *slog.Logger

	hosts         *service.HostService
	browser       *service.BrowserService
	announcements *service.AnnouncementService
	nodes         *service.NodeService
}

// Deps holds the services the tools call into.
type Deps struct {
	Logger        *slog.Logger
	Hosts         *service.HostService
	Browser       *service.BrowserService
	Announcements *service.AnnouncementService
	Nodes         *service.NodeService
	Version       string
}

// New creates and configures an MCP server with all tools, resources and prompts.
func New(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	s := &Server{
		logger:        logger,
		hosts:         deps.Hosts,
		browser:       deps.Browser,
		announcements: deps.Announcements,
		nodes:         deps.Nodes,
	}

	s.mcp = server.NewMCPServer(
		"hostpanel-mcp",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerDatabaseTools()
	s.registerAnnouncementTools()
	s.registerNodeTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.logger.Info("starting MCP stdio server")
	return server.ServeStdio(s.mcp)
}

// MCP returns the underlying server.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// jsonResource wraps v as a JSON resource body for uri.
func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func requireArgs(req mcp.CallToolRequest, names ...string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	for _, name := range names {
		v := req.GetString(name, "")
		if v == "" {
			return nil, fmt.Errorf("%s is required", name)
		}
		out[name] = v
	}
	return out, nil
}

func boolPtr(b bool) *bool { return &b }

var readOnly = mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)})

// notified is the body of tools that run a browser action.
type notified struct {
	Result       any                   `json:"result,omitempty"`
	Notification *service.Notification `json:"notification"`
}

