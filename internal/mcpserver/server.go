// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes read-only project and endpoint tools for LLM integration via
// stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/reqstudio/reqstudio/internal/endpointservice"
	"github.com/reqstudio/reqstudio/internal/projectservice"
)

// Server wraps the MCP server with the studio's tools.
type Server struct {
	mcp       *server.MCPServer
	projects  *projectservice.Service
	endpoints *endpointservice.Service
}

// New creates a new MCP server with all tools registered.
func New(projects *projectservice.Service, endpoints *endpointservice.Service) *Server {
	s := &Server{projects: projects, endpoints: endpoints}

	s.mcp = server.NewMCPServer(
		"ReqStudio",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List every API project with name, version, and base URL."),
	), s.listProjects)

	s.mcp.AddTool(mcp.NewTool("list_endpoints",
		mcp.WithDescription("List a project's endpoints in display order, grouped metadata included."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project id")),
	), s.listEndpoints)

	s.mcp.AddTool(mcp.NewTool("search_endpoints",
		mcp.WithDescription("Case-insensitive substring search over a project's endpoint titles, paths, descriptions, methods, and folders."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project id")),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search term")),
	), s.searchEndpoints)

	s.mcp.AddTool(mcp.NewTool("endpoint_stats",
		mcp.WithDescription("Aggregate counters for a project's endpoints: totals, per-method, per-folder, deprecated, documented."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project id")),
	), s.endpointStats)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := s.projects.ListProjects(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(projects, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listEndpoints(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := req.RequireString("project_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	endpoints, err := s.endpoints.EndpointsByProject(ctx, projectID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(endpoints, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchEndpoints(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := req.RequireString("project_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.endpoints.SearchEndpoints(ctx, projectID, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) endpointStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := req.RequireString("project_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	stats, err := s.endpoints.EndpointStats(ctx, projectID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(stats, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
