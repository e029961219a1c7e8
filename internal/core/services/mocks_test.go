package services

import (
	"context"
	"io"
	"sync"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
	"github.com/tidewater-labs/kbsync/internal/core/ports/driven"
)

// --- Mock implementations of driven ports for service testing ---

// mockAPI implements driven.KnowledgeAPI with programmable responses and
// per-method call recording.
type mockAPI struct {
	mu sync.Mutex

	docs         map[string][]domain.Document
	chunks       map[string][]domain.Chunk
	notes        map[string][]domain.Note
	tags         map[string][]string
	instructions map[string]domain.Instruction
	stats        map[string]domain.Stats
	results      []domain.SearchResult

	listDocsCalls  int
	getDocCalls    map[string]int
	uploadCalls    int
	retryCalls     int
	reindexCalls   int
	searchQueries  []string
	noteFilters    []domain.NoteFilter
	tagCalls       int
	deleteDocCalls int

	listDocsErr error
	uploadErr   error
	getDocErr   error
	deleteErr   error
	retryErr    error
	notesErr    error
	createErr   error
	searchErr   error
	tagsErr     error

	// Optional hooks, run while the call is "in flight".
	onGetDocument func(botID, docID string)
	onSearch      func(query string)
	onUpload      func()
}

var _ driven.KnowledgeAPI = (*mockAPI)(nil)

func newMockAPI() *mockAPI {
	return &mockAPI{
		docs:         make(map[string][]domain.Document),
		chunks:       make(map[string][]domain.Chunk),
		notes:        make(map[string][]domain.Note),
		tags:         make(map[string][]string),
		instructions: make(map[string]domain.Instruction),
		stats:        make(map[string]domain.Stats),
		getDocCalls:  make(map[string]int),
	}
}

func (m *mockAPI) ListDocuments(_ context.Context, botID string) ([]domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listDocsCalls++
	if m.listDocsErr != nil {
		return nil, m.listDocsErr
	}
	out := make([]domain.Document, len(m.docs[botID]))
	copy(out, m.docs[botID])
	return out, nil
}

func (m *mockAPI) UploadDocument(_ context.Context, botID, filename string, r io.Reader) (string, error) {
	m.mu.Lock()
	m.uploadCalls++
	hook := m.onUpload
	m.mu.Unlock()
	if hook != nil {
		hook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	if r != nil {
		_, _ = io.Copy(io.Discard, r)
	}
	doc := domain.Document{ID: "doc-new", Filename: filename, Status: domain.StatusProcessing}
	m.docs[botID] = append(m.docs[botID], doc)
	return doc.ID, nil
}

func (m *mockAPI) GetDocument(_ context.Context, botID, docID string) (*domain.Document, error) {
	m.mu.Lock()
	m.getDocCalls[docID]++
	hook := m.onGetDocument
	m.mu.Unlock()
	if hook != nil {
		hook(botID, docID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getDocErr != nil {
		return nil, m.getDocErr
	}
	for _, d := range m.docs[botID] {
		if d.ID == docID {
			doc := d
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockAPI) DeleteDocument(_ context.Context, botID, docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteDocCalls++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	kept := m.docs[botID][:0:0]
	for _, d := range m.docs[botID] {
		if d.ID != docID {
			kept = append(kept, d)
		}
	}
	m.docs[botID] = kept
	return nil
}

func (m *mockAPI) RetryDocument(_ context.Context, botID, docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retryCalls++
	if m.retryErr != nil {
		return m.retryErr
	}
	for i, d := range m.docs[botID] {
		if d.ID == docID && d.Status == domain.StatusFailed {
			m.docs[botID][i].Status = domain.StatusProcessing
		}
	}
	return nil
}

func (m *mockAPI) GetChunks(_ context.Context, _, docID string) ([]domain.Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chunks[docID], nil
}

func (m *mockAPI) GetInstruction(_ context.Context, botID string) (*domain.Instruction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ins := m.instructions[botID]
	return &ins, nil
}

func (m *mockAPI) UpdateInstruction(_ context.Context, botID, content string) (*domain.Instruction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ins := domain.Instruction{Content: content}
	m.instructions[botID] = ins
	return &ins, nil
}

func (m *mockAPI) DeleteInstruction(_ context.Context, botID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.instructions[botID] = domain.Instruction{}
	return nil
}

func (m *mockAPI) ListNotes(_ context.Context, botID string, filter domain.NoteFilter) ([]domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.noteFilters = append(m.noteFilters, filter)
	if m.notesErr != nil {
		return nil, m.notesErr
	}
	out := make([]domain.Note, len(m.notes[botID]))
	copy(out, m.notes[botID])
	return out, nil
}

func (m *mockAPI) CreateNote(_ context.Context, botID string, draft domain.NoteDraft) (*domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	note := domain.Note{
		ID:      "note-new",
		Title:   draft.Title,
		Content: draft.Content,
		Tags:    draft.Tags,
		Source:  domain.NoteSourceUser,
	}
	m.notes[botID] = append(m.notes[botID], note)
	return &note, nil
}

func (m *mockAPI) UpdateNote(_ context.Context, botID, noteID string, draft domain.NoteDraft) (*domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	note := domain.Note{ID: noteID, Title: draft.Title, Content: draft.Content, Tags: draft.Tags}
	for i, n := range m.notes[botID] {
		if n.ID == noteID {
			m.notes[botID][i] = note
		}
	}
	return &note, nil
}

func (m *mockAPI) DeleteNote(_ context.Context, botID, noteID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.notes[botID][:0:0]
	for _, n := range m.notes[botID] {
		if n.ID != noteID {
			kept = append(kept, n)
		}
	}
	m.notes[botID] = kept
	return nil
}

func (m *mockAPI) GetTags(_ context.Context, botID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tagCalls++
	if m.tagsErr != nil {
		return nil, m.tagsErr
	}
	return m.tags[botID], nil
}

func (m *mockAPI) GetStats(_ context.Context, botID string) (*domain.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.stats[botID]
	return &st, nil
}

func (m *mockAPI) Search(_ context.Context, _, query string) ([]domain.SearchResult, error) {
	m.mu.Lock()
	m.searchQueries = append(m.searchQueries, query)
	hook := m.onSearch
	m.mu.Unlock()
	if hook != nil {
		hook(query)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	out := make([]domain.SearchResult, len(m.results))
	copy(out, m.results)
	return out, nil
}

func (m *mockAPI) Reindex(_ context.Context, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reindexCalls++
	return nil
}

func (m *mockAPI) setDocStatus(botID, docID string, status domain.DocumentStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.docs[botID] {
		if d.ID == docID {
			m.docs[botID][i].Status = status
		}
	}
}

func (m *mockAPI) searchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.searchQueries)
}

func (m *mockAPI) lastSearch() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.searchQueries) == 0 {
		return ""
	}
	return m.searchQueries[len(m.searchQueries)-1]
}

// mockCache implements driven.CacheStore, recording saves.
type mockCache struct {
	mu           sync.Mutex
	docs         map[string][]domain.Document
	notes        map[string][]domain.Note
	instructions map[string]domain.Instruction
	saveDocCalls int
	closed       bool
	loadErr      error
}

var _ driven.CacheStore = (*mockCache)(nil)

func newMockCache() *mockCache {
	return &mockCache{
		docs:         make(map[string][]domain.Document),
		notes:        make(map[string][]domain.Note),
		instructions: make(map[string]domain.Instruction),
	}
}

func (m *mockCache) LoadDocuments(_ context.Context) (map[string][]domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.docs, nil
}

func (m *mockCache) LoadNotes(_ context.Context) (map[string][]domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notes, nil
}

func (m *mockCache) LoadInstructions(_ context.Context) (map[string]domain.Instruction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.instructions, nil
}

func (m *mockCache) SaveDocuments(_ context.Context, botID string, docs []domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveDocCalls++
	m.docs[botID] = docs
	return nil
}

func (m *mockCache) SaveNotes(_ context.Context, botID string, notes []domain.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes[botID] = notes
	return nil
}

func (m *mockCache) SaveInstruction(_ context.Context, botID string, ins domain.Instruction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.instructions[botID] = ins
	return nil
}

func (m *mockCache) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
