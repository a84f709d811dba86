// ABOUTME: MCP tool definitions and registration for the longform server
// ABOUTME: Defines JSON schemas for the 5 generation and library tools
package mcp

import (
	"github.com/harper/longform/internal/core"
	"github.com/harper/longform/internal/retrieval"
	"github.com/harper/longform/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, store storage.SessionStore, orchestrator *core.Orchestrator, fetcher retrieval.ContentFetcher) *Handlers {
	handlers := &Handlers{
		store:        store,
		orchestrator: orchestrator,
		fetcher:      fetcher,
	}

	// 1. generate_document - Run a full generation session to completion
	server.AddTool(mcp.Tool{
		Name:        "generate_document",
		Description: "Generate a long-form philosophical document in a subject's voice. Runs the full session to completion and returns the assembled text with its coherence report.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"prompt": map[string]interface{}{
					"type":        "string",
					"description": "What the document should be about",
				},
				"subject_id": map[string]interface{}{
					"type":        "string",
					"description": "Library id of the subject to write as",
				},
				"subject_label": map[string]interface{}{
					"type":        "string",
					"description": "Display name of the subject (e.g. 'Spinoza')",
				},
				"target_words": map[string]interface{}{
					"type":        "number",
					"description": "Target document length in words",
				},
				"kind": map[string]interface{}{
					"type":        "string",
					"description": "Output format: chat, debate, interview, dialogue, or document (default: document)",
					"default":     "document",
				},
			},
			Required: []string{"prompt", "target_words"},
		},
	}, handlers.GenerateDocument)

	// 2. list_sessions - List all generation sessions
	server.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all generation sessions with their status and word counts, newest first.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListSessions)

	// 3. get_session - Get one session's full record
	server.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get the full record of one generation session, including its skeleton, chunks, and assembled text.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session id to look up",
				},
			},
			Required: []string{"session_id"},
		},
	}, handlers.GetSession)

	// 4. get_report - Get a session's coherence report
	server.AddTool(mcp.Tool{
		Name:        "get_report",
		Description: "Get the stitch report for a completed session: total words, detected conflicts, and the coherence score.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session id to look up",
				},
			},
			Required: []string{"session_id"},
		},
	}, handlers.GetReport)

	// 5. search_library - Search the source library for a topic
	server.AddTool(mcp.Tool{
		Name:        "search_library",
		Description: "Search a subject's source library for material relevant to a topic. Returns citation-coded digest lines.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"subject_id": map[string]interface{}{
					"type":        "string",
					"description": "Library id of the subject to search",
				},
				"topic": map[string]interface{}{
					"type":        "string",
					"description": "Topic to search for",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum items per content kind (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"subject_id", "topic"},
		},
	}, handlers.SearchLibrary)

	return handlers
}
