package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
)

// uriScheme is the custom URI scheme for kbsync resources.
const uriScheme = "kbsync://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Template for a bot's document list.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "bots/{botId}/documents",
		Name:        "bot-documents",
		Description: "Documents in a bot's knowledge base",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	// Template for a bot's note list.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "bots/{botId}/notes",
		Name:        "bot-notes",
		Description: "Notes in a bot's knowledge base",
		MIMEType:    "application/json",
	}, s.handleNotesResource)

	// Template for a bot's custom instruction.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "bots/{botId}/instruction",
		Name:        "bot-instruction",
		Description: "The bot's custom instruction text",
		MIMEType:    "text/plain",
	}, s.handleInstructionResource)
}

// handleDocumentsResource returns the document list for a bot.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	botID := extractBotID(req.Params.URI, "documents")
	if botID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	docs, err := s.ports.Knowledge.LoadDocuments(ctx, botID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	// Build simplified document list.
	type docInfo struct {
		ID       string `json:"id"`
		Filename string `json:"filename"`
		Status   string `json:"status"`
		Chunks   int    `json:"chunks"`
	}

	infos := make([]docInfo, len(docs))
	for i := range docs {
		infos[i] = docInfo{
			ID:       docs[i].ID,
			Filename: docs[i].Filename,
			Status:   string(docs[i].Status),
			Chunks:   docs[i].ChunkCount,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return jsonResource(req.Params.URI, string(data)), nil
}

// handleNotesResource returns the note list for a bot.
func (s *Server) handleNotesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	botID := extractBotID(req.Params.URI, "notes")
	if botID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	notes, err := s.ports.Knowledge.LoadNotes(ctx, botID, domain.NoteFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}

	type noteInfo struct {
		ID    string   `json:"id"`
		Title string   `json:"title"`
		Tags  []string `json:"tags,omitempty"`
	}

	infos := make([]noteInfo, len(notes))
	for i := range notes {
		infos[i] = noteInfo{
			ID:    notes[i].ID,
			Title: notes[i].Title,
			Tags:  notes[i].Tags,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling notes: %w", err)
	}

	return jsonResource(req.Params.URI, string(data)), nil
}

// handleInstructionResource returns the bot's instruction text.
func (s *Server) handleInstructionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	botID := extractBotID(req.Params.URI, "instruction")
	if botID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	ins, err := s.ports.Knowledge.LoadInstruction(ctx, botID)
	if err != nil {
		return nil, fmt.Errorf("loading instruction: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     ins.Content,
		}},
	}, nil
}

func jsonResource(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractBotID extracts the bot ID from a URI like kbsync://bots/{botId}/{leaf}.
func extractBotID(uri, leaf string) string {
	const prefix = uriScheme + "bots/"
	suffix := "/" + leaf

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
