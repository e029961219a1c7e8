package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
)

func newTestStore(t *testing.T) *CacheStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewCacheStoreFromClient(client)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCacheStore_Documents_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	docs := []domain.Document{
		{ID: "doc-1", Filename: "policy.pdf", Status: domain.StatusReady, ChunkCount: 3},
		{ID: "doc-2", Filename: "intro.txt", Status: domain.StatusProcessing},
	}
	require.NoError(t, store.SaveDocuments(ctx, "bot-1", docs))

	loaded, err := store.LoadDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, loaded["bot-1"], 2)
	assert.Equal(t, "policy.pdf", loaded["bot-1"][0].Filename)
	assert.Equal(t, domain.StatusProcessing, loaded["bot-1"][1].Status)
}

func TestCacheStore_Documents_MultipleBots(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocuments(ctx, "bot-1", []domain.Document{{ID: "doc-1"}}))
	require.NoError(t, store.SaveDocuments(ctx, "bot-2", []domain.Document{{ID: "doc-2"}, {ID: "doc-3"}}))

	loaded, err := store.LoadDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
	assert.Len(t, loaded["bot-1"], 1)
	assert.Len(t, loaded["bot-2"], 2)
}

func TestCacheStore_Documents_SaveReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocuments(ctx, "bot-1", []domain.Document{{ID: "doc-1"}, {ID: "doc-2"}}))
	require.NoError(t, store.SaveDocuments(ctx, "bot-1", []domain.Document{{ID: "doc-2"}}))

	loaded, err := store.LoadDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, loaded["bot-1"], 1)
	assert.Equal(t, "doc-2", loaded["bot-1"][0].ID)
}

func TestCacheStore_Notes_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	notes := []domain.Note{
		{
			ID:        "note-1",
			Title:     "VIP customers",
			Content:   "Always offer the annual plan first.",
			Tags:      []string{"sales", "vip"},
			Source:    domain.NoteSourceUser,
			UpdatedAt: time.Now().UTC().Truncate(time.Second),
		},
	}
	require.NoError(t, store.SaveNotes(ctx, "bot-1", notes))

	loaded, err := store.LoadNotes(ctx)
	require.NoError(t, err)
	require.Len(t, loaded["bot-1"], 1)
	assert.Equal(t, []string{"sales", "vip"}, loaded["bot-1"][0].Tags)
}

func TestCacheStore_Instruction_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.SaveInstruction(ctx, "bot-1", domain.Instruction{
		Content:   "Keep answers under three sentences.",
		UpdatedAt: &now,
	}))

	loaded, err := store.LoadInstructions(ctx)
	require.NoError(t, err)
	ins := loaded["bot-1"]
	assert.Equal(t, "Keep answers under three sentences.", ins.Content)
	require.NotNil(t, ins.UpdatedAt)
	assert.Equal(t, now.Unix(), ins.UpdatedAt.Unix())
}

func TestCacheStore_LoadEmpty(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	docs, err := store.LoadDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	notes, err := store.LoadNotes(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)

	ins, err := store.LoadInstructions(ctx)
	require.NoError(t, err)
	assert.Empty(t, ins)
}

func TestCacheStore_PrefixesDoNotCollide(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocuments(ctx, "bot-1", []domain.Document{{ID: "doc-1"}}))
	require.NoError(t, store.SaveNotes(ctx, "bot-1", []domain.Note{{ID: "note-1"}}))
	require.NoError(t, store.SaveInstruction(ctx, "bot-1", domain.Instruction{Content: "x"}))

	docs, err := store.LoadDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs["bot-1"], 1)
	assert.Equal(t, "doc-1", docs["bot-1"][0].ID)

	notes, err := store.LoadNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes["bot-1"], 1)
	assert.Equal(t, "note-1", notes["bot-1"][0].ID)
}
