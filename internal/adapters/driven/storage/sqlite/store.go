package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tidewater-labs/kbsync/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/tidewater-labs/kbsync/internal/core/domain"
	"github.com/tidewater-labs/kbsync/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.CacheStore = (*Store)(nil)

// Store is the SQLite-backed cache store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.kbsync/data/cache.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".kbsync", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "cache.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// LoadDocuments returns all persisted document lists keyed by bot, in the
// order they were saved.
func (s *Store) LoadDocuments(ctx context.Context) (map[string][]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT bot_id, payload FROM documents ORDER BY bot_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.Document)
	for rows.Next() {
		var botID, payload string
		if err := rows.Scan(&botID, &payload); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		var doc domain.Document
		if err := json.Unmarshal([]byte(payload), &doc); err != nil {
			return nil, fmt.Errorf("unmarshaling document: %w", err)
		}
		out[botID] = append(out[botID], doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return out, nil
}

// LoadNotes returns all persisted note lists keyed by bot, in the order
// they were saved.
func (s *Store) LoadNotes(ctx context.Context) (map[string][]domain.Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT bot_id, payload FROM notes ORDER BY bot_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.Note)
	for rows.Next() {
		var botID, payload string
		if err := rows.Scan(&botID, &payload); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		var note domain.Note
		if err := json.Unmarshal([]byte(payload), &note); err != nil {
			return nil, fmt.Errorf("unmarshaling note: %w", err)
		}
		out[botID] = append(out[botID], note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notes: %w", err)
	}
	return out, nil
}

// LoadInstructions returns all persisted instructions keyed by bot.
func (s *Store) LoadInstructions(ctx context.Context) (map[string]domain.Instruction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT bot_id, content, updated_at FROM instructions
	`)
	if err != nil {
		return nil, fmt.Errorf("querying instructions: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Instruction)
	for rows.Next() {
		var botID, content string
		var updatedAt sql.NullTime
		if err := rows.Scan(&botID, &content, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning instruction: %w", err)
		}
		ins := domain.Instruction{Content: content}
		if updatedAt.Valid {
			t := updatedAt.Time
			ins.UpdatedAt = &t
		}
		out[botID] = ins
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating instructions: %w", err)
	}
	return out, nil
}

// SaveDocuments replaces the persisted document list for a bot.
func (s *Store) SaveDocuments(ctx context.Context, botID string, docs []domain.Document) error {
	return s.replaceRows(ctx, "documents", "document_id", botID, len(docs), func(i int) (string, []byte, error) {
		payload, err := json.Marshal(docs[i])
		return docs[i].ID, payload, err
	})
}

// SaveNotes replaces the persisted note list for a bot.
func (s *Store) SaveNotes(ctx context.Context, botID string, notes []domain.Note) error {
	return s.replaceRows(ctx, "notes", "note_id", botID, len(notes), func(i int) (string, []byte, error) {
		payload, err := json.Marshal(notes[i])
		return notes[i].ID, payload, err
	})
}

// SaveInstruction replaces the persisted instruction for a bot. An empty
// instruction is stored, not removed.
func (s *Store) SaveInstruction(ctx context.Context, botID string, ins domain.Instruction) error {
	var updatedAt sql.NullTime
	if ins.UpdatedAt != nil {
		updatedAt = sql.NullTime{Time: ins.UpdatedAt.UTC(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO instructions (bot_id, content, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(bot_id) DO UPDATE SET
			content = excluded.content,
			updated_at = excluded.updated_at
	`, botID, ins.Content, updatedAt)
	if err != nil {
		return fmt.Errorf("saving instruction: %w", err)
	}
	return nil
}

// replaceRows swaps out a bot's rows in one transaction so a crash mid-save
// never leaves a half-written list.
func (s *Store) replaceRows(ctx context.Context, table, idCol, botID string, n int, row func(i int) (string, []byte, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE bot_id = ?", botID); err != nil {
		return fmt.Errorf("clearing %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO "+table+" (bot_id, "+idCol+", position, payload) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		id, payload, err := row(i)
		if err != nil {
			return fmt.Errorf("marshalling row: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, botID, id, i, string(payload)); err != nil {
			return fmt.Errorf("inserting into %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s: %w", table, err)
	}
	return nil
}
