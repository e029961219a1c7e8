package services

import (
	"context"
	"io"
	"sync"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
	"github.com/tidewater-labs/kbsync/internal/core/ports/driven"
	"github.com/tidewater-labs/kbsync/internal/core/ports/driving"
	"github.com/tidewater-labs/kbsync/internal/logger"
)

// Ensure Store implements the interface.
var _ driving.KnowledgeService = (*Store)(nil)

// Store is the per-bot client state cache for the knowledge base.
//
// Every mutating operation follows the same reconciliation pattern: mark
// the relevant loading flag and clear the surfaced error, call the remote
// service, then merge the response into the cache (replace the whole list
// for list loads, patch one entry for gets, prepend for creates, filter for
// deletes) and clear the flag. On failure the flag is cleared, the error is
// surfaced, and the error is returned — except for the best-effort
// operations, which drop failures on the floor.
//
// All cache writes happen under a single mutex; getters return copies, so
// a reader can never observe a partially applied update.
type Store struct {
	api   driven.KnowledgeAPI
	cache driven.CacheStore

	mu sync.RWMutex

	documents    map[string][]domain.Document
	chunks       map[string][]domain.Chunk // keyed by document ID
	notes        map[string][]domain.Note
	tags         map[string][]string
	instructions map[string]domain.Instruction
	stats        map[string]domain.Stats

	// docVersions orders patches per document. Any authoritative write
	// bumps the version; a refresh whose snapshot is stale is dropped
	// (last-writer-wins by version).
	docVersions map[string]uint64

	loadingDocs   map[string]bool
	loadingNotes  map[string]bool
	loadingChunks map[string]bool // keyed by document ID
	uploading     map[string]bool

	// Search state. searchGen orders issued searches; a response whose
	// generation is no longer current (a newer search was issued, or the
	// consumer switched bots) is discarded on arrival.
	searchResults []domain.SearchResult
	searchBot     string
	searchGen     uint64
	searching     bool

	lastErr string
}

// NewStore creates a knowledge store backed by the given remote service
// and durable cache. Call Init before first use.
func NewStore(api driven.KnowledgeAPI, cache driven.CacheStore) *Store {
	return &Store{
		api:           api,
		cache:         cache,
		documents:     make(map[string][]domain.Document),
		chunks:        make(map[string][]domain.Chunk),
		notes:         make(map[string][]domain.Note),
		tags:          make(map[string][]string),
		instructions:  make(map[string]domain.Instruction),
		stats:         make(map[string]domain.Stats),
		docVersions:   make(map[string]uint64),
		loadingDocs:   make(map[string]bool),
		loadingNotes:  make(map[string]bool),
		loadingChunks: make(map[string]bool),
		uploading:     make(map[string]bool),
	}
}

// Init loads the persisted caches. Transient state (flags, errors, search
// results, upload markers) is never persisted and starts empty.
func (s *Store) Init(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	docs, err := s.cache.LoadDocuments(ctx)
	if err != nil {
		return err
	}
	notes, err := s.cache.LoadNotes(ctx)
	if err != nil {
		return err
	}
	instructions, err := s.cache.LoadInstructions(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for bot, list := range docs {
		s.documents[bot] = list
		for i := range list {
			s.docVersions[list[i].ID]++
		}
	}
	for bot, list := range notes {
		s.notes[bot] = list
	}
	for bot, ins := range instructions {
		s.instructions[bot] = ins
	}
	return nil
}

// Close releases the cache store.
func (s *Store) Close() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Close()
}

// --- Snapshot getters ---

// Documents returns a copy of the bot's cached document list.
func (s *Store) Documents(botID string) []domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyDocs(s.documents[botID])
}

// ProcessingDocuments returns the bot's documents still in processing.
// This is the active poll set for the watcher.
func (s *Store) ProcessingDocuments(botID string) []domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Document
	for _, d := range s.documents[botID] {
		if d.Status == domain.StatusProcessing {
			out = append(out, d)
		}
	}
	return out
}

// Chunks returns a copy of a document's cached chunk previews.
func (s *Store) Chunks(docID string) []domain.Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Chunk, len(s.chunks[docID]))
	copy(out, s.chunks[docID])
	return out
}

// Notes returns a copy of the bot's cached note list. The cache reflects
// the last server answer for the last-issued filter combination.
func (s *Store) Notes(botID string) []domain.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyNotes(s.notes[botID])
}

// Tags returns a copy of the bot's known tag set.
func (s *Store) Tags(botID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.tags[botID]))
	copy(out, s.tags[botID])
	return out
}

// Instruction returns the bot's cached instruction. The zero value means
// "never loaded or unset".
func (s *Store) Instruction(botID string) domain.Instruction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.instructions[botID]
}

// Stats returns the bot's cached stats and whether they have been loaded.
func (s *Store) Stats(botID string) (domain.Stats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stats[botID]
	return st, ok
}

// SearchResults returns a copy of the current result buffer.
func (s *Store) SearchResults() []domain.SearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SearchResult, len(s.searchResults))
	copy(out, s.searchResults)
	return out
}

// Err returns the most recently surfaced failure message.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// LoadingDocuments reports whether a document-list load is in flight.
func (s *Store) LoadingDocuments(botID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadingDocs[botID]
}

// LoadingNotes reports whether a note-list load is in flight.
func (s *Store) LoadingNotes(botID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadingNotes[botID]
}

// LoadingChunks reports whether a chunk load is in flight for a document.
func (s *Store) LoadingChunks(docID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadingChunks[docID]
}

// Uploading reports whether an upload is in flight for a bot.
func (s *Store) Uploading(botID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uploading[botID]
}

// Searching reports whether the most recently issued search is still in
// flight.
func (s *Store) Searching() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searching
}

// --- Document operations ---

// LoadDocuments fetches and replaces the bot's document list wholesale.
func (s *Store) LoadDocuments(ctx context.Context, botID string) ([]domain.Document, error) {
	s.mu.Lock()
	s.loadingDocs[botID] = true
	s.lastErr = ""
	s.mu.Unlock()

	docs, err := s.api.ListDocuments(ctx, botID)

	s.mu.Lock()
	s.loadingDocs[botID] = false
	if err != nil {
		s.lastErr = err.Error()
		s.mu.Unlock()
		return nil, err
	}
	s.documents[botID] = docs
	for i := range docs {
		s.docVersions[docs[i].ID]++
	}
	s.mu.Unlock()

	s.persistDocuments(ctx, botID, docs)
	return copyDocs(docs), nil
}

// UploadDocument validates and uploads a file, then reloads the document
// list so server-assigned fields (ID, chunk count, status) are captured.
// Returns the new document's ID.
func (s *Store) UploadDocument(ctx context.Context, botID, filename string, size int64, r io.Reader) (string, error) {
	if err := domain.ValidateUpload(filename, size); err != nil {
		s.setErr(err)
		return "", err
	}

	s.mu.Lock()
	s.uploading[botID] = true
	s.lastErr = ""
	s.mu.Unlock()

	docID, err := s.api.UploadDocument(ctx, botID, filename, r)

	s.mu.Lock()
	s.uploading[botID] = false
	if err != nil {
		s.lastErr = err.Error()
		s.mu.Unlock()
		return "", err
	}
	s.mu.Unlock()

	// Full reload rather than a single-item patch: the server owns
	// chunk_count and status, and a fresh list captures both.
	if _, err := s.LoadDocuments(ctx, botID); err != nil {
		return docID, err
	}
	return docID, nil
}

// DeleteDocument removes a document server-side, then filters the cache.
// The cached entry survives a failed delete. The filter itself is
// idempotent: deleting an ID not present is a no-op.
func (s *Store) DeleteDocument(ctx context.Context, botID, docID string) error {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.api.DeleteDocument(ctx, botID, docID); err != nil {
		s.setErr(err)
		return err
	}

	s.mu.Lock()
	s.documents[botID] = filterDocs(s.documents[botID], docID)
	delete(s.chunks, docID)
	delete(s.docVersions, docID)
	delete(s.loadingChunks, docID)
	docs := copyDocs(s.documents[botID])
	s.mu.Unlock()

	s.persistDocuments(ctx, botID, docs)
	return nil
}

// RetryDocument re-queues a failed document, then reloads the list. The
// client never locally forces the status to processing; whatever the
// server reports after the reload is the truth.
func (s *Store) RetryDocument(ctx context.Context, botID, docID string) error {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.api.RetryDocument(ctx, botID, docID); err != nil {
		s.setErr(err)
		return err
	}

	_, err := s.LoadDocuments(ctx, botID)
	return err
}

// LoadChunks lazily fetches a document's chunk previews.
func (s *Store) LoadChunks(ctx context.Context, botID, docID string) ([]domain.Chunk, error) {
	s.mu.Lock()
	s.loadingChunks[docID] = true
	s.lastErr = ""
	s.mu.Unlock()

	chunks, err := s.api.GetChunks(ctx, botID, docID)

	s.mu.Lock()
	s.loadingChunks[docID] = false
	if err != nil {
		s.lastErr = err.Error()
		s.mu.Unlock()
		return nil, err
	}
	s.chunks[docID] = chunks
	s.mu.Unlock()

	out := make([]domain.Chunk, len(chunks))
	copy(out, chunks)
	return out, nil
}

// RefreshDocument fetches one document and patches it in place. Used by
// the polling watcher; deliberately non-fatal. A document deleted while
// the fetch was in flight simply fails to patch, and a patch from a stale
// snapshot (the cache was rewritten meanwhile) is dropped.
func (s *Store) RefreshDocument(ctx context.Context, botID, docID string) {
	s.mu.RLock()
	version, known := s.docVersions[docID]
	s.mu.RUnlock()
	if !known {
		return
	}

	doc, err := s.api.GetDocument(ctx, botID, docID)
	if err != nil {
		// Races against background state this path does not own:
		// no error surfaced, nothing thrown.
		logger.Debug("refresh %s/%s dropped: %v", botID, docID, err)
		return
	}

	s.mu.Lock()
	if s.docVersions[docID] != version {
		s.mu.Unlock()
		logger.Debug("refresh %s/%s stale, dropped", botID, docID)
		return
	}
	patched := false
	list := s.documents[botID]
	for i := range list {
		if list[i].ID == docID {
			list[i] = *doc
			patched = true
			break
		}
	}
	if patched {
		s.docVersions[docID] = version + 1
	}
	docs := copyDocs(list)
	s.mu.Unlock()

	if patched {
		s.persistDocuments(ctx, botID, docs)
	}
}

// --- Note operations ---

// LoadNotes fetches and replaces the bot's note list. The filter is
// forwarded to the server; no filtering is layered on top locally.
func (s *Store) LoadNotes(ctx context.Context, botID string, filter domain.NoteFilter) ([]domain.Note, error) {
	s.mu.Lock()
	s.loadingNotes[botID] = true
	s.lastErr = ""
	s.mu.Unlock()

	notes, err := s.api.ListNotes(ctx, botID, filter)

	s.mu.Lock()
	s.loadingNotes[botID] = false
	if err != nil {
		s.lastErr = err.Error()
		s.mu.Unlock()
		return nil, err
	}
	s.notes[botID] = notes
	s.mu.Unlock()

	s.persistNotes(ctx, botID, notes)
	return copyNotes(notes), nil
}

// CreateNote validates and creates a note, prepending the stored entity to
// the cached list, then refreshes the tag set.
func (s *Store) CreateNote(ctx context.Context, botID string, draft domain.NoteDraft) (*domain.Note, error) {
	if err := domain.ValidateNoteDraft(draft); err != nil {
		s.setErr(err)
		return nil, err
	}
	draft.Tags = domain.NormalizeTags(draft.Tags)

	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()

	note, err := s.api.CreateNote(ctx, botID, draft)
	if err != nil {
		s.setErr(err)
		return nil, err
	}

	s.mu.Lock()
	s.notes[botID] = append([]domain.Note{*note}, s.notes[botID]...)
	notes := copyNotes(s.notes[botID])
	s.mu.Unlock()

	s.persistNotes(ctx, botID, notes)
	s.ReloadTags(ctx, botID)
	return note, nil
}

// UpdateNote overwrites a note and patches the cached entry, then
// refreshes the tag set.
func (s *Store) UpdateNote(ctx context.Context, botID, noteID string, draft domain.NoteDraft) (*domain.Note, error) {
	if err := domain.ValidateNoteDraft(draft); err != nil {
		s.setErr(err)
		return nil, err
	}
	draft.Tags = domain.NormalizeTags(draft.Tags)

	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()

	note, err := s.api.UpdateNote(ctx, botID, noteID, draft)
	if err != nil {
		s.setErr(err)
		return nil, err
	}

	s.mu.Lock()
	for i := range s.notes[botID] {
		if s.notes[botID][i].ID == noteID {
			s.notes[botID][i] = *note
			break
		}
	}
	notes := copyNotes(s.notes[botID])
	s.mu.Unlock()

	s.persistNotes(ctx, botID, notes)
	s.ReloadTags(ctx, botID)
	return note, nil
}

// DeleteNote removes a note server-side, then filters the cache and
// refreshes the tag set.
func (s *Store) DeleteNote(ctx context.Context, botID, noteID string) error {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.api.DeleteNote(ctx, botID, noteID); err != nil {
		s.setErr(err)
		return err
	}

	s.mu.Lock()
	kept := s.notes[botID][:0:0]
	for _, n := range s.notes[botID] {
		if n.ID != noteID {
			kept = append(kept, n)
		}
	}
	s.notes[botID] = kept
	notes := copyNotes(kept)
	s.mu.Unlock()

	s.persistNotes(ctx, botID, notes)
	s.ReloadTags(ctx, botID)
	return nil
}

// ReloadTags refreshes the cached tag set for a bot. Best-effort: a lost
// tag refresh must not disrupt the flow that triggered it.
func (s *Store) ReloadTags(ctx context.Context, botID string) {
	tags, err := s.api.GetTags(ctx, botID)
	if err != nil {
		logger.Debug("tag reload for %s dropped: %v", botID, err)
		return
	}
	s.mu.Lock()
	s.tags[botID] = tags
	s.mu.Unlock()
}

// --- Instruction operations ---

// LoadInstruction fetches the bot's instruction blob.
func (s *Store) LoadInstruction(ctx context.Context, botID string) (domain.Instruction, error) {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()

	ins, err := s.api.GetInstruction(ctx, botID)
	if err != nil {
		s.setErr(err)
		return domain.Instruction{}, err
	}

	s.mu.Lock()
	s.instructions[botID] = *ins
	s.mu.Unlock()

	s.persistInstruction(ctx, botID, *ins)
	return *ins, nil
}

// SaveInstruction overwrites the bot's instruction. The content is stored
// exactly as given, no trimming or transformation.
func (s *Store) SaveInstruction(ctx context.Context, botID, content string) (domain.Instruction, error) {
	if err := domain.ValidateInstruction(content); err != nil {
		s.setErr(err)
		return domain.Instruction{}, err
	}

	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()

	ins, err := s.api.UpdateInstruction(ctx, botID, content)
	if err != nil {
		s.setErr(err)
		return domain.Instruction{}, err
	}

	s.mu.Lock()
	s.instructions[botID] = *ins
	s.mu.Unlock()

	s.persistInstruction(ctx, botID, *ins)
	return *ins, nil
}

// ClearInstruction deletes the bot's instruction. The cache keeps an empty
// entry rather than removing the key: cleared and unset look the same.
func (s *Store) ClearInstruction(ctx context.Context, botID string) error {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.api.DeleteInstruction(ctx, botID); err != nil {
		s.setErr(err)
		return err
	}

	s.mu.Lock()
	s.instructions[botID] = domain.Instruction{}
	s.mu.Unlock()

	s.persistInstruction(ctx, botID, domain.Instruction{})
	return nil
}

// --- Aggregate operations ---

// LoadStats fetches the server-computed counters for a bot.
func (s *Store) LoadStats(ctx context.Context, botID string) (domain.Stats, error) {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()

	st, err := s.api.GetStats(ctx, botID)
	if err != nil {
		s.setErr(err)
		return domain.Stats{}, err
	}

	s.mu.Lock()
	s.stats[botID] = *st
	s.mu.Unlock()
	return *st, nil
}

// Search runs a knowledge-base search and replaces the result buffer
// wholesale. Each call takes a generation number; a response arriving
// after a newer search was issued (or after the consumer switched bots)
// is returned to its caller but never written to the buffer.
func (s *Store) Search(ctx context.Context, botID, query string) ([]domain.SearchResult, error) {
	if query == "" {
		s.ClearSearch()
		return nil, nil
	}

	s.mu.Lock()
	s.searchGen++
	gen := s.searchGen
	s.searchBot = botID
	s.searching = true
	s.lastErr = ""
	s.mu.Unlock()

	results, err := s.api.Search(ctx, botID, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.searchGen != gen || s.searchBot != botID {
		// Superseded while in flight.
		logger.Debug("search gen %d for %s superseded", gen, botID)
		return results, err
	}
	s.searching = false
	if err != nil {
		s.lastErr = err.Error()
		return nil, err
	}
	s.searchResults = results
	out := make([]domain.SearchResult, len(results))
	copy(out, results)
	return out, nil
}

// ClearSearch empties the result buffer immediately and invalidates any
// in-flight search so its response cannot land afterwards.
func (s *Store) ClearSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchGen++
	s.searchResults = nil
	s.searching = false
}

// Reindex asks the server to reprocess all documents for a bot. No
// progress is tracked here; callers reload stats to observe effects.
func (s *Store) Reindex(ctx context.Context, botID string) error {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.api.Reindex(ctx, botID); err != nil {
		s.setErr(err)
		return err
	}
	return nil
}

// --- internal helpers ---

func (s *Store) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
}

// persist helpers write through to the durable cache. Persistence is a
// cache of a cache: failures are logged, never surfaced.

func (s *Store) persistDocuments(ctx context.Context, botID string, docs []domain.Document) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SaveDocuments(ctx, botID, docs); err != nil {
		logger.Warn("persist documents for %s: %v", botID, err)
	}
}

func (s *Store) persistNotes(ctx context.Context, botID string, notes []domain.Note) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SaveNotes(ctx, botID, notes); err != nil {
		logger.Warn("persist notes for %s: %v", botID, err)
	}
}

func (s *Store) persistInstruction(ctx context.Context, botID string, ins domain.Instruction) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SaveInstruction(ctx, botID, ins); err != nil {
		logger.Warn("persist instruction for %s: %v", botID, err)
	}
}

func copyDocs(docs []domain.Document) []domain.Document {
	out := make([]domain.Document, len(docs))
	copy(out, docs)
	return out
}

func copyNotes(notes []domain.Note) []domain.Note {
	out := make([]domain.Note, len(notes))
	copy(out, notes)
	return out
}

func filterDocs(docs []domain.Document, docID string) []domain.Document {
	kept := docs[:0:0]
	for _, d := range docs {
		if d.ID != docID {
			kept = append(kept, d)
		}
	}
	return kept
}
