package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		score := 0.95
		src := "handbook.pdf"
		mock := &mockKnowledge{
			results: []domain.SearchResult{
				{
					ID:      "doc-1",
					Type:    domain.ResultTypeDocument,
					Title:   "Handbook",
					Content: "matched snippet",
					Score:   &score,
					Source:  &src,
				},
				{
					ID:    "note-1",
					Type:  domain.ResultTypeNote,
					Title: "Refunds",
				},
			},
		}

		server, err := NewServer(&Ports{Knowledge: mock, DefaultBot: "bot-1"})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "refund"})
		require.NoError(t, err)

		assert.Equal(t, 2, output.Count)
		require.Len(t, output.Results, 2)
		assert.Equal(t, "doc-1", output.Results[0].ID)
		assert.Equal(t, "document", output.Results[0].Type)
		assert.Equal(t, "handbook.pdf", output.Results[0].Source)
		require.NotNil(t, output.Results[0].Score)
		assert.Equal(t, 0.95, *output.Results[0].Score)
		assert.Nil(t, output.Results[1].Score)
		assert.Empty(t, output.Results[1].Source)
	})

	t.Run("explicit bot overrides default", func(t *testing.T) {
		mock := &mockKnowledge{}
		server, err := NewServer(&Ports{Knowledge: mock, DefaultBot: "bot-1"})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "q", BotID: "bot-2"})
		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
	})

	t.Run("no bot returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Knowledge: &mockKnowledge{}})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "q"})
		assert.ErrorIs(t, err, errNoBot)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		mock := &mockKnowledge{err: errors.New("search failed")}
		server, err := NewServer(&Ports{Knowledge: mock, DefaultBot: "bot-1"})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "q"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleStats(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stats", func(t *testing.T) {
		mock := &mockKnowledge{
			stats: domain.Stats{
				TotalDocuments:  4,
				DocumentsReady:  3,
				DocumentsFailed: 1,
				TotalChunks:     42,
				TotalNotes:      7,
				HasInstructions: true,
			},
		}
		server, err := NewServer(&Ports{Knowledge: mock, DefaultBot: "bot-1"})
		require.NoError(t, err)

		_, output, err := server.handleStats(ctx, nil, StatsInput{})
		require.NoError(t, err)
		assert.Equal(t, 4, output.TotalDocuments)
		assert.Equal(t, 42, output.TotalChunks)
		assert.True(t, output.HasInstructions)
	})

	t.Run("no bot returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Knowledge: &mockKnowledge{}})
		require.NoError(t, err)

		_, _, err = server.handleStats(ctx, nil, StatsInput{})
		assert.ErrorIs(t, err, errNoBot)
	})
}
