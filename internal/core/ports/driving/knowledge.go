package driving

import (
	"context"
	"io"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
)

// KnowledgeService is the single source of truth for knowledge-base client
// state. All reads go through synchronous snapshot getters; all writes go
// through asynchronous operations that call the remote service and
// reconcile the response into the cache.
//
// Operations fall into two contract categories:
//
//   - User-initiated operations return an error AND record it in the
//     shared error field read by Err().
//   - Best-effort operations (RefreshDocument, ReloadTags) have no error
//     return at all. They are opportunistic background refreshes; losing
//     one must never disrupt a user-visible flow.
type KnowledgeService interface {
	// Init loads the persisted caches. Loading flags, errors, search
	// results, and upload markers always start empty.
	Init(ctx context.Context) error

	// Close flushes and releases the underlying cache store.
	Close() error

	// Snapshot getters. Each returns a copy; mutating the returned value
	// never affects the cache.

	Documents(botID string) []domain.Document
	ProcessingDocuments(botID string) []domain.Document
	Chunks(docID string) []domain.Chunk
	Notes(botID string) []domain.Note
	Tags(botID string) []string
	Instruction(botID string) domain.Instruction
	Stats(botID string) (domain.Stats, bool)
	SearchResults() []domain.SearchResult

	// Err returns the most recently surfaced failure message, or "".
	Err() string

	LoadingDocuments(botID string) bool
	LoadingNotes(botID string) bool
	LoadingChunks(docID string) bool
	Uploading(botID string) bool
	Searching() bool

	// Document operations.

	// LoadDocuments replaces the bot's cached document list wholesale.
	LoadDocuments(ctx context.Context, botID string) ([]domain.Document, error)

	// UploadDocument validates, uploads, and reloads the document list so
	// server-assigned fields are captured. Returns the new document ID.
	UploadDocument(ctx context.Context, botID, filename string, size int64, r io.Reader) (string, error)

	// DeleteDocument removes a document. The cache entry is filtered out
	// only after the server confirms.
	DeleteDocument(ctx context.Context, botID, docID string) error

	// RetryDocument re-queues a failed document, then reloads the list;
	// the resulting status is always server-authoritative.
	RetryDocument(ctx context.Context, botID, docID string) error

	// LoadChunks lazily fetches the chunk previews of a document.
	LoadChunks(ctx context.Context, botID, docID string) ([]domain.Chunk, error)

	// RefreshDocument fetches one document and patches it in place.
	// Best-effort: failures and stale results are silently dropped.
	RefreshDocument(ctx context.Context, botID, docID string)

	// Note operations.

	LoadNotes(ctx context.Context, botID string, filter domain.NoteFilter) ([]domain.Note, error)
	CreateNote(ctx context.Context, botID string, draft domain.NoteDraft) (*domain.Note, error)
	UpdateNote(ctx context.Context, botID, noteID string, draft domain.NoteDraft) (*domain.Note, error)
	DeleteNote(ctx context.Context, botID, noteID string) error

	// ReloadTags refreshes the cached tag set. Best-effort.
	ReloadTags(ctx context.Context, botID string)

	// Instruction operations.

	LoadInstruction(ctx context.Context, botID string) (domain.Instruction, error)
	SaveInstruction(ctx context.Context, botID, content string) (domain.Instruction, error)
	ClearInstruction(ctx context.Context, botID string) error

	// Aggregate operations.

	LoadStats(ctx context.Context, botID string) (domain.Stats, error)

	// Search replaces the result buffer wholesale. Responses belonging to
	// a superseded search (older generation or different bot) are
	// discarded on arrival.
	Search(ctx context.Context, botID, query string) ([]domain.SearchResult, error)

	// ClearSearch empties the result buffer immediately.
	ClearSearch()

	// Reindex asks the server to reprocess every document. The service
	// tracks no progress; follow up with LoadStats to observe effects.
	Reindex(ctx context.Context, botID string) error
}
