package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	pkgdb "github.com/unowned-ai/memos/pkg/db"
	"github.com/unowned-ai/memos/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the memos MCP server (stdio)",
	Long: `Start a Model Context Protocol (MCP) server that exposes memos as tools
via STDIO: create_memo, list_memos, get_memo, update_memo, delete_memo,
list_categories, search_memos and list_tags.

With --overview an additional tool named 'get_memo_overview' is registered.
An LLM can call it at the start of a conversation to learn what the memo
store holds.

Example:
  memos mcp
  memos mcp --overview --db /path/to/memos.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		overview, _ := cmd.Flags().GetBool("overview")

		dbConn, path, err := openDB()
		if err != nil {
			return err
		}
		defer pkgdb.CloseDBConnection(dbConn)

		srv := mcp.NewMemosMCPServer(dbConn, slog.Default())
		tools := srv.RegisterTools(overview)

		// Log to stderr so we don't contaminate the JSON-RPC stream on stdout.
		fmt.Fprintf(os.Stderr, "Memos MCP server started. DB: %s (WAL: %t, Sync: %s)\n", path, cfg.Database.WAL, cfg.Database.Sync)
		fmt.Fprintf(os.Stderr, "Available tools: %s\n", strings.Join(tools, ", "))
		fmt.Fprintln(os.Stderr, "Listening for MCP JSON-RPC on STDIN/STDOUT ... (Ctrl+C to quit)")

		return srv.Start()
	},
}

func initMCPCmd() {
	mcpCmd.Flags().Bool("overview", false, "Register the 'get_memo_overview' tool for LLM initialization")
	rootCmd.AddCommand(mcpCmd)
}
