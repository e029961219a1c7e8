package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
)

// ListNotes returns notes, optionally filtered server-side. Tags are
// forwarded comma-joined; the free-text search string goes through
// verbatim.
func (c *Client) ListNotes(ctx context.Context, botID string, filter domain.NoteFilter) ([]domain.Note, error) {
	query := url.Values{}
	if len(filter.Tags) > 0 {
		query.Set("tags", strings.Join(filter.Tags, ","))
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}

	var notes []domain.Note
	path := c.botPath(botID, "notes") + "/"
	if err := c.do(ctx, http.MethodGet, path, query, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// CreateNote creates a note and returns the stored entity.
func (c *Client) CreateNote(ctx context.Context, botID string, draft domain.NoteDraft) (*domain.Note, error) {
	var note domain.Note
	path := c.botPath(botID, "notes") + "/"
	if err := c.do(ctx, http.MethodPost, path, nil, draft, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote overwrites a note and returns the stored entity.
func (c *Client) UpdateNote(ctx context.Context, botID, noteID string, draft domain.NoteDraft) (*domain.Note, error) {
	var note domain.Note
	if err := c.do(ctx, http.MethodPut, c.botPath(botID, "notes", noteID), nil, draft, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote removes a note.
func (c *Client) DeleteNote(ctx context.Context, botID, noteID string) error {
	return c.do(ctx, http.MethodDelete, c.botPath(botID, "notes", noteID), nil, nil, nil)
}

// GetTags returns the aggregated tag set across the bot's notes.
func (c *Client) GetTags(ctx context.Context, botID string) ([]string, error) {
	var tags []string
	if err := c.do(ctx, http.MethodGet, c.botPath(botID, "notes", "tags"), nil, nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}
