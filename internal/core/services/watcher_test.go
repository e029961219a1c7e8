package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
)

const testPollInterval = 5 * time.Millisecond

func TestWatcherPollsUntilTerminal(t *testing.T) {
	api := newMockAPI()
	api.docs["b1"] = []domain.Document{{ID: "d1", Status: domain.StatusProcessing}}
	store := NewStore(api, nil)
	ctx := context.Background()
	_, err := store.LoadDocuments(ctx, "b1")
	require.NoError(t, err)

	// Flip to ready after the third poll.
	polls := 0
	api.onGetDocument = func(botID, docID string) {
		polls++
		if polls == 3 {
			api.setDocStatus(botID, docID, domain.StatusReady)
		}
	}

	w := NewWatcher(store, testPollInterval)
	require.NoError(t, w.Watch(ctx, "b1"))

	assert.GreaterOrEqual(t, polls, 3)
	docs := store.Documents("b1")
	require.Len(t, docs, 1)
	assert.Equal(t, domain.StatusReady, docs[0].Status)
	assert.Empty(t, store.ProcessingDocuments("b1"))
}

func TestWatcherNoProcessingReturnsImmediately(t *testing.T) {
	api := newMockAPI()
	api.docs["b1"] = []domain.Document{{ID: "d1", Status: domain.StatusReady}}
	store := NewStore(api, nil)
	_, err := store.LoadDocuments(context.Background(), "b1")
	require.NoError(t, err)

	w := NewWatcher(store, testPollInterval)
	require.NoError(t, w.Watch(context.Background(), "b1"))
	assert.Zero(t, api.getDocCalls["d1"])
}

func TestWatcherOnlyPollsProcessingDocuments(t *testing.T) {
	api := newMockAPI()
	api.docs["b1"] = []domain.Document{
		{ID: "d1", Status: domain.StatusProcessing},
		{ID: "d2", Status: domain.StatusReady},
	}
	store := NewStore(api, nil)
	ctx := context.Background()
	_, err := store.LoadDocuments(ctx, "b1")
	require.NoError(t, err)

	api.onGetDocument = func(botID, docID string) {
		api.setDocStatus(botID, docID, domain.StatusFailed)
	}

	w := NewWatcher(store, testPollInterval)
	require.NoError(t, w.Watch(ctx, "b1"))

	assert.Equal(t, 1, api.getDocCalls["d1"])
	assert.Zero(t, api.getDocCalls["d2"])

	// Failed is terminal: nothing left to poll.
	assert.Empty(t, store.ProcessingDocuments("b1"))
}

func TestWatcherCancellation(t *testing.T) {
	api := newMockAPI()
	api.docs["b1"] = []domain.Document{{ID: "d1", Status: domain.StatusProcessing}}
	store := NewStore(api, nil)
	_, err := store.LoadDocuments(context.Background(), "b1")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	w := NewWatcher(store, testPollInterval)

	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, "b1") }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("watch did not stop on cancellation")
	}
}

func TestWatcherStartIdempotentPerBot(t *testing.T) {
	api := newMockAPI()
	api.docs["b1"] = []domain.Document{{ID: "d1", Status: domain.StatusProcessing}}
	store := NewStore(api, nil)
	ctx := context.Background()
	_, err := store.LoadDocuments(ctx, "b1")
	require.NoError(t, err)

	w := NewWatcher(store, testPollInterval)
	assert.True(t, w.Start(ctx, "b1"))
	assert.False(t, w.Start(ctx, "b1"))
	assert.True(t, w.Watching("b1"))

	w.Stop("b1")
	require.Eventually(t, func() bool { return !w.Watching("b1") },
		time.Second, testPollInterval)

	w.StopAll()
}

func TestWatcherBackgroundWatchDrains(t *testing.T) {
	api := newMockAPI()
	api.docs["b1"] = []domain.Document{{ID: "d1", Status: domain.StatusProcessing}}
	store := NewStore(api, nil)
	ctx := context.Background()
	_, err := store.LoadDocuments(ctx, "b1")
	require.NoError(t, err)

	api.onGetDocument = func(botID, docID string) {
		api.setDocStatus(botID, docID, domain.StatusReady)
	}

	w := NewWatcher(store, testPollInterval)
	require.True(t, w.Start(ctx, "b1"))

	// The watch tears itself down once the processing set drains.
	require.Eventually(t, func() bool { return !w.Watching("b1") },
		time.Second, testPollInterval)

	docs := store.Documents("b1")
	require.Len(t, docs, 1)
	assert.Equal(t, domain.StatusReady, docs[0].Status)
}
