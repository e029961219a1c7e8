package services

import (
	"context"
	"sync"
	"time"

	"github.com/tidewater-labs/kbsync/internal/core/ports/driving"
	"github.com/tidewater-labs/kbsync/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driving.ProcessingWatcher = (*Watcher)(nil)

// DefaultPollInterval is how often processing documents are re-fetched.
const DefaultPollInterval = 3 * time.Second

// Watcher polls the store's processing documents until they reach a
// terminal status. Each tick issues a best-effort refresh per processing
// document; the watch tears itself down when the processing set becomes
// empty. No backoff, no tick cap: polling continues until the documents
// settle or the watch is cancelled.
type Watcher struct {
	store    driving.KnowledgeService
	interval time.Duration

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
}

// NewWatcher creates a watcher over the given store. A non-positive
// interval falls back to DefaultPollInterval.
func NewWatcher(store driving.KnowledgeService, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		store:    store,
		interval: interval,
		cancels:  make(map[string]context.CancelFunc),
	}
}

// Watch blocks, refreshing every processing document for the bot once per
// tick, until none remain or ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context, botID string) error {
	if len(w.store.ProcessingDocuments(botID)) == 0 {
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			processing := w.store.ProcessingDocuments(botID)
			if len(processing) == 0 {
				return nil
			}
			for _, doc := range processing {
				w.store.RefreshDocument(ctx, botID, doc.ID)
			}
		}
	}
}

// Start launches Watch in the background. Idempotent per bot: a second
// Start while the first watch is alive is a no-op and returns false.
func (w *Watcher) Start(ctx context.Context, botID string) bool {
	w.mu.Lock()
	if _, active := w.cancels[botID]; active {
		w.mu.Unlock()
		return false
	}
	watchCtx, cancel := context.WithCancel(ctx)
	w.cancels[botID] = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		if err := w.Watch(watchCtx, botID); err != nil && err != context.Canceled {
			logger.Debug("watch for %s ended: %v", botID, err)
		}
		w.mu.Lock()
		delete(w.cancels, botID)
		w.mu.Unlock()
		cancel()
	}()
	return true
}

// Stop cancels the background watch for a bot, if any.
func (w *Watcher) Stop(botID string) {
	w.mu.Lock()
	cancel, active := w.cancels[botID]
	w.mu.Unlock()
	if active {
		cancel()
	}
}

// Watching reports whether a background watch is active for the bot.
func (w *Watcher) Watching(botID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, active := w.cancels[botID]
	return active
}

// StopAll cancels every background watch and waits for them to exit.
func (w *Watcher) StopAll() {
	w.mu.Lock()
	for _, cancel := range w.cancels {
		cancel()
	}
	w.mu.Unlock()
	w.wg.Wait()
}
