// ABOUTME: MCP tool handler implementations for the longform server
// ABOUTME: Thin adapters from tool arguments onto the orchestrator and library
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/harper/longform/internal/core"
	"github.com/harper/longform/internal/models"
	"github.com/harper/longform/internal/retrieval"
	"github.com/harper/longform/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	store        storage.SessionStore
	orchestrator *core.Orchestrator
	fetcher      retrieval.ContentFetcher
}

// GenerateDocument handles the generate_document tool. The session runs
// to completion before the result returns; MCP tool calls have no
// streaming channel, so progress events are dropped.
func (h *Handlers) GenerateDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := request.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError("prompt argument is required and must be a string"), nil
	}
	targetWords := request.GetInt("target_words", 0)
	if targetWords <= 0 {
		return mcp.NewToolResultError("target_words argument is required and must be a positive number"), nil
	}
	subjectID := request.GetString("subject_id", "")
	subjectLabel := request.GetString("subject_label", subjectID)
	kind := models.SessionKind(request.GetString("kind", string(models.KindDocument)))

	session, err := h.orchestrator.Start(kind, subjectID, subjectLabel, prompt, targetWords)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start session: %v", err)), nil
	}

	if err := h.orchestrator.Run(ctx, session.ID, nil); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generation failed (session %s): %v", session.ID, err)), nil
	}

	final, err := h.store.GetSession(session.ID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load session %s: %v", session.ID, err)), nil
	}
	report, err := h.store.GetReport(session.ID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load report for %s: %v", session.ID, err)), nil
	}

	result := map[string]interface{}{
		"session_id":      final.ID,
		"status":          final.Status,
		"total_words":     final.ActualWords,
		"target_words":    final.TargetWords,
		"chunks":          len(final.Chunks),
		"coherence_score": report.CoherenceScore,
		"conflicts":       report.Conflicts,
		"text":            assembleText(final),
	}
	return jsonResult(result)
}

// ListSessions handles the list_sessions tool
func (h *Handlers) ListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := h.store.ListSessions()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list sessions: %v", err)), nil
	}

	summaries := make([]map[string]interface{}, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, map[string]interface{}{
			"session_id":    s.ID,
			"kind":          s.Kind,
			"subject_label": s.SubjectLabel,
			"status":        s.Status,
			"target_words":  s.TargetWords,
			"actual_words":  s.ActualWords,
			"chunks":        len(s.Chunks),
			"created_at":    s.CreatedAt,
		})
	}
	return jsonResult(map[string]interface{}{"sessions": summaries, "count": len(summaries)})
}

// GetSession handles the get_session tool
func (h *Handlers) GetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id argument is required and must be a string"), nil
	}

	session, err := h.store.GetSession(sessionID)
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("session %s not found", sessionID)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load session: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"session": session,
		"text":    assembleText(session),
	})
}

// GetReport handles the get_report tool
func (h *Handlers) GetReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id argument is required and must be a string"), nil
	}

	report, err := h.store.GetReport(sessionID)
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no report for session %s; the session may not have completed", sessionID)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load report: %v", err)), nil
	}
	return jsonResult(report)
}

// SearchLibrary handles the search_library tool
func (h *Handlers) SearchLibrary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subjectID, err := request.RequireString("subject_id")
	if err != nil {
		return mcp.NewToolResultError("subject_id argument is required and must be a string"), nil
	}
	topic, err := request.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError("topic argument is required and must be a string"), nil
	}
	limit := request.GetInt("limit", 5)

	if h.fetcher == nil {
		return mcp.NewToolResultError("no source library configured"), nil
	}
	bundle, err := h.fetcher.FetchContent(ctx, subjectID, topic, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("library search failed: %v", err)), nil
	}

	digest := bundle.Digest()
	return jsonResult(map[string]interface{}{
		"subject_id": subjectID,
		"topic":      topic,
		"count":      len(digest),
		"items":      digest,
	})
}

// assembleText joins chunk texts in order
func assembleText(session *models.Session) string {
	parts := make([]string, 0, len(session.Chunks))
	for _, chunk := range session.Chunks {
		if chunk.Status == models.ChunkComplete {
			parts = append(parts, chunk.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// jsonResult marshals v into a text tool result
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
