// Package memory provides an in-memory implementation of the cache store
// port, used in tests and when persistence is disabled.
package memory

import (
	"context"
	"sync"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
	"github.com/tidewater-labs/kbsync/internal/core/ports/driven"
)

// Ensure CacheStore implements the interface.
var _ driven.CacheStore = (*CacheStore)(nil)

// CacheStore is an in-memory implementation of driven.CacheStore.
// Nothing survives process exit.
type CacheStore struct {
	mu           sync.RWMutex
	documents    map[string][]domain.Document
	notes        map[string][]domain.Note
	instructions map[string]domain.Instruction
}

// NewCacheStore creates a new in-memory cache store.
func NewCacheStore() *CacheStore {
	return &CacheStore{
		documents:    make(map[string][]domain.Document),
		notes:        make(map[string][]domain.Note),
		instructions: make(map[string]domain.Instruction),
	}
}

// LoadDocuments returns all stored document lists keyed by bot.
func (s *CacheStore) LoadDocuments(_ context.Context) (map[string][]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]domain.Document, len(s.documents))
	for bot, docs := range s.documents {
		out[bot] = append([]domain.Document(nil), docs...)
	}
	return out, nil
}

// LoadNotes returns all stored note lists keyed by bot.
func (s *CacheStore) LoadNotes(_ context.Context) (map[string][]domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]domain.Note, len(s.notes))
	for bot, notes := range s.notes {
		out[bot] = append([]domain.Note(nil), notes...)
	}
	return out, nil
}

// LoadInstructions returns all stored instructions keyed by bot.
func (s *CacheStore) LoadInstructions(_ context.Context) (map[string]domain.Instruction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Instruction, len(s.instructions))
	for bot, ins := range s.instructions {
		out[bot] = ins
	}
	return out, nil
}

// SaveDocuments replaces the document list for a bot.
func (s *CacheStore) SaveDocuments(_ context.Context, botID string, docs []domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[botID] = append([]domain.Document(nil), docs...)
	return nil
}

// SaveNotes replaces the note list for a bot.
func (s *CacheStore) SaveNotes(_ context.Context, botID string, notes []domain.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[botID] = append([]domain.Note(nil), notes...)
	return nil
}

// SaveInstruction replaces the instruction for a bot.
func (s *CacheStore) SaveInstruction(_ context.Context, botID string, ins domain.Instruction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instructions[botID] = ins
	return nil
}

// Close is a no-op for the in-memory store.
func (s *CacheStore) Close() error {
	return nil
}
