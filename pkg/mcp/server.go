// Package mcp exposes memos to LLM clients as Model Context Protocol tools
// over stdio.
package mcp

import (
	"database/sql"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/unowned-ai/memos/pkg/version"
)

// MemosMCPServer wraps the mcp-go server with the memo tools.
type MemosMCPServer struct {
	mcpServer *server.MCPServer
	db        *sql.DB
	logger    *slog.Logger
}

// NewMemosMCPServer creates the server over an open, migrated database.
// Tools are registered with RegisterTools.
func NewMemosMCPServer(db *sql.DB, logger *slog.Logger) *MemosMCPServer {
	if logger == nil {
		logger = slog.Default()
	}
	s := server.NewMCPServer(
		"Memos MCP Server",
		version.Version,
		server.WithToolCapabilities(false),
		server.WithLogging(),
		server.WithRecovery(),
	)
	return &MemosMCPServer{mcpServer: s, db: db, logger: logger}
}

// RegisterTools registers every memo tool. With overview set it also
// registers get_memo_overview.
func (s *MemosMCPServer) RegisterTools(overview bool) []string {
	RegisterCreateMemoTool(s.mcpServer, s.db)
	RegisterListMemosTool(s.mcpServer, s.db)
	RegisterGetMemoTool(s.mcpServer, s.db)
	RegisterUpdateMemoTool(s.mcpServer, s.db)
	RegisterDeleteMemoTool(s.mcpServer, s.db)
	RegisterListCategoriesTool(s.mcpServer)
	RegisterSearchMemosTool(s.mcpServer, s.db)
	RegisterListTagsTool(s.mcpServer, s.db)

	names := []string{"create_memo", "list_memos", "get_memo", "update_memo", "delete_memo", "list_categories", "search_memos", "list_tags"}
	if overview {
		RegisterMemoOverviewTool(s.mcpServer, s.db)
		names = append(names, "get_memo_overview")
	}
	s.logger.Debug("mcp: tools registered", slog.Any("tools", names))
	return names
}

// Start runs the stdio event loop. Make sure to register tools beforehand.
func (s *MemosMCPServer) Start() error {
	return server.ServeStdio(s.mcpServer)
}

// MCPRawServer exposes the raw mcp-go server (useful for additional configuration).
func (s *MemosMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}
