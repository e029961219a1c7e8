// Package redis provides a Redis-backed implementation of the cache store
// port, for deployments where several workstations share one cache.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
	"github.com/tidewater-labs/kbsync/internal/core/ports/driven"
)

// Ensure CacheStore implements the interface.
var _ driven.CacheStore = (*CacheStore)(nil)

const (
	documentsPrefix   = "kbsync:documents:"
	notesPrefix       = "kbsync:notes:"
	instructionPrefix = "kbsync:instruction:"

	scanBatch = 100
)

// CacheStore persists bot caches in Redis. Each bot's document list, note
// list, and instruction live under their own keys as JSON blobs.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore connects to Redis at addr and verifies the connection.
func NewCacheStore(ctx context.Context, addr, password string, db int) (*CacheStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:                  addr,
		Password:              password,
		DB:                    db,
		ContextTimeoutEnabled: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &CacheStore{client: client}, nil
}

// NewCacheStoreFromClient wraps an existing client. Used in tests.
func NewCacheStoreFromClient(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// LoadDocuments returns all persisted document lists keyed by bot.
func (s *CacheStore) LoadDocuments(ctx context.Context) (map[string][]domain.Document, error) {
	out := make(map[string][]domain.Document)
	err := s.loadAll(ctx, documentsPrefix, func(botID string, payload []byte) error {
		var docs []domain.Document
		if err := json.Unmarshal(payload, &docs); err != nil {
			return fmt.Errorf("unmarshaling documents for %s: %w", botID, err)
		}
		out[botID] = docs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LoadNotes returns all persisted note lists keyed by bot.
func (s *CacheStore) LoadNotes(ctx context.Context) (map[string][]domain.Note, error) {
	out := make(map[string][]domain.Note)
	err := s.loadAll(ctx, notesPrefix, func(botID string, payload []byte) error {
		var notes []domain.Note
		if err := json.Unmarshal(payload, &notes); err != nil {
			return fmt.Errorf("unmarshaling notes for %s: %w", botID, err)
		}
		out[botID] = notes
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LoadInstructions returns all persisted instructions keyed by bot.
func (s *CacheStore) LoadInstructions(ctx context.Context) (map[string]domain.Instruction, error) {
	out := make(map[string]domain.Instruction)
	err := s.loadAll(ctx, instructionPrefix, func(botID string, payload []byte) error {
		var ins domain.Instruction
		if err := json.Unmarshal(payload, &ins); err != nil {
			return fmt.Errorf("unmarshaling instruction for %s: %w", botID, err)
		}
		out[botID] = ins
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SaveDocuments replaces the persisted document list for a bot.
func (s *CacheStore) SaveDocuments(ctx context.Context, botID string, docs []domain.Document) error {
	return s.saveJSON(ctx, documentsPrefix+botID, docs)
}

// SaveNotes replaces the persisted note list for a bot.
func (s *CacheStore) SaveNotes(ctx context.Context, botID string, notes []domain.Note) error {
	return s.saveJSON(ctx, notesPrefix+botID, notes)
}

// SaveInstruction replaces the persisted instruction for a bot.
func (s *CacheStore) SaveInstruction(ctx context.Context, botID string, ins domain.Instruction) error {
	return s.saveJSON(ctx, instructionPrefix+botID, ins)
}

// Close closes the underlying client.
func (s *CacheStore) Close() error {
	return s.client.Close()
}

func (s *CacheStore) saveJSON(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// loadAll scans all keys under prefix and hands each value to fn together
// with the bot ID extracted from the key.
func (s *CacheStore) loadAll(ctx context.Context, prefix string, fn func(botID string, payload []byte) error) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("scanning %s: %w", prefix, err)
		}

		for _, key := range keys {
			payload, err := s.client.Get(ctx, key).Bytes()
			if err == redis.Nil {
				continue
			}
			if err != nil {
				return fmt.Errorf("getting %s: %w", key, err)
			}
			if err := fn(strings.TrimPrefix(key, prefix), payload); err != nil {
				return err
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
