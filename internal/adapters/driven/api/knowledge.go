package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
)

// instructionBody is the PUT payload for instruction updates.
type instructionBody struct {
	Content string `json:"content"`
}

// GetInstruction fetches the bot's instruction blob. A bot that has never
// set one yields an empty instruction, not an error.
func (c *Client) GetInstruction(ctx context.Context, botID string) (*domain.Instruction, error) {
	var ins domain.Instruction
	path := c.botPath(botID, "instructions") + "/"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &ins); err != nil {
		return nil, err
	}
	return &ins, nil
}

// UpdateInstruction overwrites the bot's instruction blob.
func (c *Client) UpdateInstruction(ctx context.Context, botID, content string) (*domain.Instruction, error) {
	var ins domain.Instruction
	path := c.botPath(botID, "instructions") + "/"
	if err := c.do(ctx, http.MethodPut, path, nil, instructionBody{Content: content}, &ins); err != nil {
		return nil, err
	}
	return &ins, nil
}

// DeleteInstruction clears the bot's instruction blob.
func (c *Client) DeleteInstruction(ctx context.Context, botID string) error {
	path := c.botPath(botID, "instructions") + "/"
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// GetStats returns the aggregate knowledge-base counters.
func (c *Client) GetStats(ctx context.Context, botID string) (*domain.Stats, error) {
	var stats domain.Stats
	if err := c.do(ctx, http.MethodGet, c.botPath(botID, "stats"), nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Search runs a full-text/semantic search over the bot's knowledge.
func (c *Client) Search(ctx context.Context, botID, query string) ([]domain.SearchResult, error) {
	q := url.Values{}
	q.Set("q", query)

	var results []domain.SearchResult
	if err := c.do(ctx, http.MethodGet, c.botPath(botID, "search"), q, nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Reindex asks the server to reprocess all of the bot's documents.
func (c *Client) Reindex(ctx context.Context, botID string) error {
	return c.do(ctx, http.MethodPost, c.botPath(botID, "reindex"), nil, nil, nil)
}
