package driven

import (
	"context"
	"io"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
)

// KnowledgeAPI is the remote knowledge service. Every call maps to exactly
// one HTTP operation against the service, scoped by bot identifier. All
// ingestion, chunking, embedding, ranking, and persistence happens behind
// this boundary; the client only reconciles responses into its caches.
//
// Every method either returns a fully-typed value or an error carrying a
// human-readable message. None of them swallow transport failures.
type KnowledgeAPI interface {
	// ListDocuments returns all documents for a bot.
	ListDocuments(ctx context.Context, botID string) ([]domain.Document, error)

	// UploadDocument sends a file as multipart form data and returns the
	// server-assigned document ID. The new document starts in processing.
	UploadDocument(ctx context.Context, botID, filename string, r io.Reader) (string, error)

	// GetDocument fetches a single document by ID.
	GetDocument(ctx context.Context, botID, docID string) (*domain.Document, error)

	// DeleteDocument removes a document and its chunks server-side.
	DeleteDocument(ctx context.Context, botID, docID string) error

	// RetryDocument asks the server to reprocess a failed document.
	RetryDocument(ctx context.Context, botID, docID string) error

	// GetChunks returns the ordered chunk previews of a document.
	GetChunks(ctx context.Context, botID, docID string) ([]domain.Chunk, error)

	// GetInstruction fetches the bot's instruction blob.
	GetInstruction(ctx context.Context, botID string) (*domain.Instruction, error)

	// UpdateInstruction overwrites the bot's instruction blob.
	UpdateInstruction(ctx context.Context, botID, content string) (*domain.Instruction, error)

	// DeleteInstruction clears the bot's instruction blob.
	DeleteInstruction(ctx context.Context, botID string) error

	// ListNotes returns notes, optionally filtered server-side by tags
	// and free-text search.
	ListNotes(ctx context.Context, botID string, filter domain.NoteFilter) ([]domain.Note, error)

	// CreateNote creates a note and returns the stored entity.
	CreateNote(ctx context.Context, botID string, draft domain.NoteDraft) (*domain.Note, error)

	// UpdateNote overwrites a note and returns the stored entity.
	UpdateNote(ctx context.Context, botID, noteID string, draft domain.NoteDraft) (*domain.Note, error)

	// DeleteNote removes a note.
	DeleteNote(ctx context.Context, botID, noteID string) error

	// GetTags returns the aggregated tag set across the bot's notes.
	GetTags(ctx context.Context, botID string) ([]string, error)

	// GetStats returns the aggregate knowledge-base counters.
	GetStats(ctx context.Context, botID string) (*domain.Stats, error)

	// Search runs a full-text/semantic search over the bot's knowledge.
	Search(ctx context.Context, botID, query string) ([]domain.SearchResult, error)

	// Reindex asks the server to reprocess all of the bot's documents.
	// Progress is not reported; callers observe effects via GetStats.
	Reindex(ctx context.Context, botID string) error
}
