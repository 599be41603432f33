// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Othala inventory tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/othala/internal/inventory"
	"github.com/starford/othala/internal/tracker"
)

// Server wraps the MCP server with Othala tools.
type Server struct {
	mcp *server.MCPServer
	svc *tracker.Service
}

// New creates a new MCP server with all Othala tools registered.
func New(svc *tracker.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Othala",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("scan_folder",
		mcp.WithDescription("Scan a folder, reconcile against its persisted inventory, "+
			"and save the merged result. Returns the scan summary and counts."),
		mcp.WithString("folder", mcp.Required(), mcp.Description("Absolute path of the folder to scan")),
	), s.scanFolder)

	s.mcp.AddTool(mcp.NewTool("filter_inventory",
		mcp.WithDescription("Filter a tracked folder's inventory. Text query tokens are "+
			"comma-separated: 'folder:x' excludes folder paths containing x, 'incfolder:x' "+
			"keeps only folder paths containing x, other tokens are free-text terms."),
		mcp.WithString("folder", mcp.Required(), mcp.Description("Tracked folder path")),
		mcp.WithString("status", mcp.Description("Exact status filter: Active, Updated, Added, Removed (empty or All for no filter)")),
		mcp.WithString("topics", mcp.Description("Comma-separated topic terms, AND-combined")),
		mcp.WithString("query", mcp.Description("Comma-separated text query")),
	), s.filterInventory)

	s.mcp.AddTool(mcp.NewTool("set_note",
		mcp.WithDescription("Set the manual note on one inventory record and persist. "+
			"Notes survive rescans and file removal."),
		mcp.WithString("folder", mcp.Required(), mcp.Description("Tracked folder path")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Full path of the record (the inventory key)")),
		mcp.WithString("note", mcp.Required(), mcp.Description("Note text")),
	), s.setNote)

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

func (s *Server) scanFolder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder, err := req.RequireString("folder")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.ScanFolder(ctx, folder)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(map[string]any{
		"summary":  res.Summary,
		"location": res.Location,
		"counts":   res.Counts,
		"warnings": res.Warnings,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) filterInventory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder, err := req.RequireString("folder")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	crit := inventory.Criteria{
		Status: req.GetString("status", ""),
		Topics: req.GetString("topics", ""),
		Text:   req.GetString("query", ""),
	}
	rows, err := s.svc.Inventory(ctx, folder, crit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) setNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder, err := req.RequireString("folder")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := req.RequireString("note")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.SaveNotes(ctx, folder, map[string]string{path: note})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s (%s)", res.Summary, path)), nil
}
