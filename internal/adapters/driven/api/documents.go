package api

import (
	"context"
	"io"
	"net/http"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
)

// ListDocuments returns all documents for a bot.
func (c *Client) ListDocuments(ctx context.Context, botID string) ([]domain.Document, error) {
	var docs []domain.Document
	path := c.botPath(botID, "documents") + "/"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// UploadDocument sends a file as multipart form data. The server assigns
// the document ID and starts it in processing.
func (c *Client) UploadDocument(ctx context.Context, botID, filename string, r io.Reader) (string, error) {
	var doc domain.Document
	path := c.botPath(botID, "documents") + "/"
	if err := c.doMultipart(ctx, path, filename, r, &doc); err != nil {
		return "", err
	}
	return doc.ID, nil
}

// GetDocument fetches a single document by ID.
func (c *Client) GetDocument(ctx context.Context, botID, docID string) (*domain.Document, error) {
	var doc domain.Document
	if err := c.do(ctx, http.MethodGet, c.botPath(botID, "documents", docID), nil, nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteDocument removes a document and its chunks.
func (c *Client) DeleteDocument(ctx context.Context, botID, docID string) error {
	return c.do(ctx, http.MethodDelete, c.botPath(botID, "documents", docID), nil, nil, nil)
}

// RetryDocument asks the server to reprocess a failed document.
func (c *Client) RetryDocument(ctx context.Context, botID, docID string) error {
	return c.do(ctx, http.MethodPost, c.botPath(botID, "documents", docID, "retry"), nil, nil, nil)
}

// GetChunks returns the ordered chunk previews of a document.
func (c *Client) GetChunks(ctx context.Context, botID, docID string) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	if err := c.do(ctx, http.MethodGet, c.botPath(botID, "documents", docID, "chunks"), nil, nil, &chunks); err != nil {
		return nil, err
	}
	return chunks, nil
}
