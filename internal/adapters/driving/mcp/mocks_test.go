package mcp

import (
	"context"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
	"github.com/tidewater-labs/kbsync/internal/core/ports/driving"
)

// mockKnowledge is a partial mock of driving.KnowledgeService. The embedded
// interface covers the methods a test never calls; calling one panics.
type mockKnowledge struct {
	driving.KnowledgeService

	results     []domain.SearchResult
	stats       domain.Stats
	documents   []domain.Document
	notes       []domain.Note
	instruction domain.Instruction
	err         error
}

func (m *mockKnowledge) Search(_ context.Context, _, _ string) ([]domain.SearchResult, error) {
	return m.results, m.err
}

func (m *mockKnowledge) LoadStats(_ context.Context, _ string) (domain.Stats, error) {
	return m.stats, m.err
}

func (m *mockKnowledge) LoadDocuments(_ context.Context, _ string) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockKnowledge) LoadNotes(_ context.Context, _ string, _ domain.NoteFilter) ([]domain.Note, error) {
	return m.notes, m.err
}

func (m *mockKnowledge) LoadInstruction(_ context.Context, _ string) (domain.Instruction, error) {
	return m.instruction, m.err
}
