package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
)

// errNoBot is returned when neither the call nor the config names a bot.
var errNoBot = errors.New("mcp: no bot specified and no default configured")

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the text to search for"`
	BotID string `json:"bot_id,omitempty" jsonschema:"bot whose knowledge base to search (defaults to the configured bot)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Title   string   `json:"title"`
	Content string   `json:"content,omitempty"`
	Score   *float64 `json:"score,omitempty"`
	Source  string   `json:"source,omitempty"`
}

// StatsInput is the input schema for the stats tool.
type StatsInput struct {
	BotID string `json:"bot_id,omitempty" jsonschema:"bot to report on (defaults to the configured bot)"`
}

// StatsOutput is the output schema for the stats tool.
type StatsOutput struct {
	TotalDocuments      int  `json:"total_documents"`
	DocumentsReady      int  `json:"documents_ready"`
	DocumentsProcessing int  `json:"documents_processing"`
	DocumentsFailed     int  `json:"documents_failed"`
	TotalChunks         int  `json:"total_chunks"`
	TotalNotes          int  `json:"total_notes"`
	HasInstructions     bool `json:"has_instructions"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_knowledge",
		Description: "Search a bot's knowledge base (documents and notes)",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "knowledge_stats",
		Description: "Get aggregate statistics for a bot's knowledge base",
	}, s.handleStats)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	bot := s.ports.bot(input.BotID)
	if bot == "" {
		return nil, SearchOutput{}, errNoBot
	}

	results, err := s.ports.Knowledge.Search(ctx, bot, input.Query)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		out := SearchResultOutput{
			ID:      results[i].ID,
			Type:    string(results[i].Type),
			Title:   results[i].Title,
			Content: results[i].Content,
			Score:   results[i].Score,
		}
		if results[i].Source != nil {
			out.Source = *results[i].Source
		}
		output.Results[i] = out
	}

	return nil, output, nil
}

// handleStats handles the stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	bot := s.ports.bot(input.BotID)
	if bot == "" {
		return nil, StatsOutput{}, errNoBot
	}

	stats, err := s.ports.Knowledge.LoadStats(ctx, bot)
	if err != nil {
		return nil, StatsOutput{}, err
	}

	return nil, statsOutput(stats), nil
}

func statsOutput(stats domain.Stats) StatsOutput {
	return StatsOutput{
		TotalDocuments:      stats.TotalDocuments,
		DocumentsReady:      stats.DocumentsReady,
		DocumentsProcessing: stats.DocumentsProcessing,
		DocumentsFailed:     stats.DocumentsFailed,
		TotalChunks:         stats.TotalChunks,
		TotalNotes:          stats.TotalNotes,
		HasInstructions:     stats.HasInstructions,
	}
}
