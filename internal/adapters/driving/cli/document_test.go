package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestDocumentListCmd_PrintsDocuments(t *testing.T) {
	mock := &mockKnowledge{
		documents: []domain.Document{
			{
				ID:         "doc-1",
				Filename:   "guide.pdf",
				FileSize:   2048,
				ChunkCount: 4,
				Status:     domain.StatusReady,
				UploadedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			},
		},
	}
	cleanup := setupTestServices(mock)
	defer cleanup()

	out, err := execute(t, "document", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "doc-1")
	assert.Contains(t, out, "guide.pdf")
	assert.Contains(t, out, "ready (4 chunks)")
	assert.Contains(t, out, "Total: 1 documents")
}

func TestDocumentListCmd_Empty(t *testing.T) {
	cleanup := setupTestServices(&mockKnowledge{})
	defer cleanup()

	out, err := execute(t, "document", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents found")
}

func TestDocumentListCmd_JSON(t *testing.T) {
	mock := &mockKnowledge{
		documents: []domain.Document{{ID: "doc-1", Filename: "guide.pdf"}},
	}
	cleanup := setupTestServices(mock)
	defer cleanup()

	out, err := execute(t, "document", "list", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "doc-1"`)
}

func TestDocumentDeleteCmd(t *testing.T) {
	cleanup := setupTestServices(&mockKnowledge{})
	defer cleanup()

	out, err := execute(t, "document", "delete", "doc-1")
	require.NoError(t, err)
	assert.Contains(t, out, "doc-1 deleted")
}

func TestDocumentRetryCmd(t *testing.T) {
	cleanup := setupTestServices(&mockKnowledge{})
	defer cleanup()

	out, err := execute(t, "document", "retry", "doc-1")
	require.NoError(t, err)
	assert.Contains(t, out, "re-queued")
}

func TestDocumentChunksCmd(t *testing.T) {
	mock := &mockKnowledge{
		chunks: []domain.Chunk{
			{ID: "ch-1", Index: 0, Content: "first chunk"},
			{ID: "ch-2", Index: 1, Content: "second chunk"},
		},
	}
	cleanup := setupTestServices(mock)
	defer cleanup()

	out, err := execute(t, "document", "chunks", "doc-1")
	require.NoError(t, err)
	assert.Contains(t, out, "[0] first chunk")
	assert.Contains(t, out, "Total: 2 chunks")
}

func TestDocumentCmd_NoBotSelected(t *testing.T) {
	cleanup := setupTestServices(&mockKnowledge{})
	defer cleanup()
	flagBot = ""

	_, err := execute(t, "document", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no bot selected")
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", formatSize(512))
	assert.Equal(t, "2.0 KB", formatSize(2048))
	assert.Equal(t, "1.5 MB", formatSize(1572864))
}

func TestFormatStatus(t *testing.T) {
	ready := domain.Document{Status: domain.StatusReady, ChunkCount: 3}
	assert.Equal(t, "ready (3 chunks)", formatStatus(ready))

	processing := domain.Document{Status: domain.StatusProcessing}
	assert.Equal(t, "processing", formatStatus(processing))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "lon...", truncate("long text", 3))
}
