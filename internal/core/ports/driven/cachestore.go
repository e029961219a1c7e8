package driven

import (
	"context"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
)

// CacheStore persists the durable part of the client cache between runs:
// documents, notes, and instructions, keyed by bot ID.
//
// Loading flags, errors, search results, and upload markers are explicitly
// excluded from persistence and always reset to empty on process start.
type CacheStore interface {
	// LoadDocuments returns all persisted document lists keyed by bot.
	LoadDocuments(ctx context.Context) (map[string][]domain.Document, error)

	// LoadNotes returns all persisted note lists keyed by bot.
	LoadNotes(ctx context.Context) (map[string][]domain.Note, error)

	// LoadInstructions returns all persisted instructions keyed by bot.
	LoadInstructions(ctx context.Context) (map[string]domain.Instruction, error)

	// SaveDocuments replaces the persisted document list for a bot.
	SaveDocuments(ctx context.Context, botID string, docs []domain.Document) error

	// SaveNotes replaces the persisted note list for a bot.
	SaveNotes(ctx context.Context, botID string, notes []domain.Note) error

	// SaveInstruction replaces the persisted instruction for a bot.
	// An empty instruction is stored, not removed.
	SaveInstruction(ctx context.Context, botID string, ins domain.Instruction) error

	// Close releases any underlying resources.
	Close() error
}
