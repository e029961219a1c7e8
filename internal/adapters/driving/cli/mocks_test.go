package cli

import (
	"context"
	"io"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
	"github.com/tidewater-labs/kbsync/internal/core/ports/driving"
)

// mockKnowledge is a partial mock of driving.KnowledgeService covering the
// methods the CLI exercises; unused methods panic via the embedded nil.
type mockKnowledge struct {
	driving.KnowledgeService

	documents   []domain.Document
	chunks      []domain.Chunk
	notes       []domain.Note
	tags        []string
	instruction domain.Instruction
	stats       domain.Stats
	results     []domain.SearchResult
	uploadID    string
	err         error

	lastFilter domain.NoteFilter
	lastDraft  domain.NoteDraft
}

func (m *mockKnowledge) LoadDocuments(_ context.Context, _ string) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockKnowledge) Documents(_ string) []domain.Document {
	return m.documents
}

func (m *mockKnowledge) UploadDocument(_ context.Context, _, _ string, _ int64, r io.Reader) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	_, _ = io.Copy(io.Discard, r)
	return m.uploadID, nil
}

func (m *mockKnowledge) DeleteDocument(_ context.Context, _, _ string) error {
	return m.err
}

func (m *mockKnowledge) RetryDocument(_ context.Context, _, _ string) error {
	return m.err
}

func (m *mockKnowledge) LoadChunks(_ context.Context, _, _ string) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

func (m *mockKnowledge) LoadNotes(_ context.Context, _ string, filter domain.NoteFilter) ([]domain.Note, error) {
	m.lastFilter = filter
	return m.notes, m.err
}

func (m *mockKnowledge) CreateNote(_ context.Context, _ string, draft domain.NoteDraft) (*domain.Note, error) {
	m.lastDraft = draft
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Note{ID: "note-new", Title: draft.Title}, nil
}

func (m *mockKnowledge) UpdateNote(_ context.Context, _, noteID string, draft domain.NoteDraft) (*domain.Note, error) {
	m.lastDraft = draft
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Note{ID: noteID, Title: draft.Title}, nil
}

func (m *mockKnowledge) DeleteNote(_ context.Context, _, _ string) error {
	return m.err
}

func (m *mockKnowledge) ReloadTags(_ context.Context, _ string) {}

func (m *mockKnowledge) Tags(_ string) []string {
	return m.tags
}

func (m *mockKnowledge) LoadInstruction(_ context.Context, _ string) (domain.Instruction, error) {
	return m.instruction, m.err
}

func (m *mockKnowledge) SaveInstruction(_ context.Context, _, content string) (domain.Instruction, error) {
	if m.err != nil {
		return domain.Instruction{}, m.err
	}
	return domain.Instruction{Content: content}, nil
}

func (m *mockKnowledge) ClearInstruction(_ context.Context, _ string) error {
	return m.err
}

func (m *mockKnowledge) LoadStats(_ context.Context, _ string) (domain.Stats, error) {
	return m.stats, m.err
}

func (m *mockKnowledge) Search(_ context.Context, _, _ string) ([]domain.SearchResult, error) {
	return m.results, m.err
}

func (m *mockKnowledge) Reindex(_ context.Context, _ string) error {
	return m.err
}

// setupTestServices injects a mock service and a default bot, returning a
// cleanup that restores the previous wiring.
func setupTestServices(mock *mockKnowledge) func() {
	prevSvc := knowledgeService
	prevBot := flagBot
	knowledgeService = mock
	flagBot = "bot-test"
	return func() {
		knowledgeService = prevSvc
		flagBot = prevBot
	}
}
