// ABOUTME: Serve command starts the MCP server over stdio
// ABOUTME: Exposes generation and library tools to LLM agents
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harper/longform/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server for LLM agents",
		Long: `Run longform as an MCP (Model Context Protocol) server over stdio,
exposing document generation and library search as agent tools.`,
		RunE: runServe,
		Example: `  # Start the MCP server (typically launched by an agent host)
  longform serve`,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := buildStack()
	if err != nil {
		return err
	}
	defer s.close()

	server := mcpserver.NewMCPServer(
		"Longform Coherence Orchestrator",
		versionInfo.Version,
	)
	mcp.RegisterTools(server, s.store, s.orchestrator, s.library)

	fmt.Fprintln(os.Stderr, "Longform MCP server starting on stdio...")
	return mcpserver.ServeStdio(server)
}
