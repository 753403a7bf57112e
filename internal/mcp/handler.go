package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tendant/simple-notes/pkg/simplenotes"
)

// NotesHandler exposes the notes service as MCP tools
type NotesHandler struct {
	service simplenotes.Service
	logger  *slog.Logger
}

// NewNotesHandler creates a new instance of NotesHandler
func NewNotesHandler(service simplenotes.Service, logger *slog.Logger) *NotesHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotesHandler{service: service, logger: logger}
}

// RegisterTools registers the notes tools with the MCP server
func (h *NotesHandler) RegisterTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List the names of all markdown notes in display order"),
	), h.handleListNotes)

	s.AddTool(mcp.NewTool("list_note_index",
		mcp.WithDescription("List every note with its display name, title and public URL"),
	), h.handleListNoteIndex)

	s.AddTool(mcp.NewTool("get_note",
		mcp.WithDescription("Return the markdown content of a note"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Storage name of the note, e.g. file_5d41402abc.md")),
	), h.handleGetNote)

	s.AddTool(mcp.NewTool("save_note",
		mcp.WithDescription("Create or replace a markdown note"),
		mcp.WithString("display_name", mcp.Required(), mcp.Description("Human readable file name")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown body")),
		mcp.WithString("name", mcp.Description("Existing storage name to update; derived from display_name when empty")),
		mcp.WithNumber("sort_order", mcp.Description("Position in listings, lower first")),
	), h.handleSaveNote)

	s.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note and its metadata"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Storage name of the note")),
	), h.handleDeleteNote)
}

func (h *NotesHandler) handleListNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := h.service.ListFileNames(ctx)
	if err != nil {
		return h.toolError(ctx, "list_notes", err), nil
	}
	return jsonResult(map[string]any{
		"files":  result.Names,
		"source": result.Source,
	})
}

func (h *NotesHandler) handleListNoteIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := h.service.ListFileIndex(ctx)
	if err != nil {
		return h.toolError(ctx, "list_note_index", err), nil
	}
	return jsonResult(map[string]any{"files": result.Files})
}

func (h *NotesHandler) handleGetNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := stringArg(request, "name")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	content, err := h.service.GetFileContent(ctx, name)
	if err != nil {
		return h.toolError(ctx, "get_note", err), nil
	}
	return mcp.NewToolResultText(content), nil
}

func (h *NotesHandler) handleSaveNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := simplenotes.SaveFileRequest{
		DisplayName: stringArg(request, "display_name"),
		Title:       stringArg(request, "title"),
		Content:     stringArg(request, "content"),
		Name:        stringArg(request, "name"),
	}
	// JSON numbers arrive as float64
	if v, ok := request.GetArguments()["sort_order"].(float64); ok {
		req.SortOrder = int(v)
	}

	result, err := h.service.SaveFile(ctx, req)
	if err != nil {
		return h.toolError(ctx, "save_note", err), nil
	}
	return jsonResult(map[string]any{
		"name":     result.Name,
		"file_url": result.FileURL,
		"status":   result.Status.Outcome(),
		"warnings": result.Status.Warnings(),
	})
}

func (h *NotesHandler) handleDeleteNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := stringArg(request, "name")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	result, err := h.service.DeleteFile(ctx, name)
	if err != nil {
		return h.toolError(ctx, "delete_note", err), nil
	}
	return jsonResult(map[string]any{
		"name":     result.Name,
		"status":   result.Status.Outcome(),
		"warnings": result.Status.Warnings(),
	})
}

// toolError reports err to the caller. Client errors are passed through,
// anything else is logged and replaced by a generic message.
func (h *NotesHandler) toolError(ctx context.Context, tool string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, simplenotes.ErrNotFound):
		return mcp.NewToolResultError("file not found")
	case errors.Is(err, simplenotes.ErrInvalidRequest), errors.Is(err, simplenotes.ErrContentRequired):
		return mcp.NewToolResultError(err.Error())
	}
	h.logger.ErrorContext(ctx, "tool failed", "tool", tool, "error", err)
	return mcp.NewToolResultError(tool + " failed")
}

func stringArg(request mcp.CallToolRequest, key string) string {
	if v, ok := request.GetArguments()[key].(string); ok {
		return v
	}
	return ""
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
