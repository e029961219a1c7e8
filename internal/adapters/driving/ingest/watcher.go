// Package ingest watches a local directory and uploads new or changed
// files to a bot's knowledge base.
//
// Editors write files in bursts (create, truncate, several writes), so
// each path gets a short settle delay; only the last event within the
// delay triggers an upload.
package ingest

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
	"github.com/tidewater-labs/kbsync/internal/logger"
)

// DefaultSettleDelay is how long a file must stay quiet before upload.
const DefaultSettleDelay = 2 * time.Second

// Uploader is the slice of the knowledge service the watcher needs.
type Uploader interface {
	UploadDocument(ctx context.Context, botID, filename string, size int64, r io.Reader) (string, error)
}

// Watcher uploads files from a watched directory as they appear or change.
type Watcher struct {
	uploader Uploader
	botID    string
	settle   time.Duration

	// OnUpload, when set, is called after each successful upload.
	OnUpload func(path, docID string)

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher creates a directory watcher uploading into the given bot.
func NewWatcher(uploader Uploader, botID string, settle time.Duration) *Watcher {
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	return &Watcher{
		uploader: uploader,
		botID:    botID,
		settle:   settle,
		pending:  make(map[string]*time.Timer),
	}
}

// Run watches dir until ctx is cancelled. Only files with supported
// extensions are considered; everything else is ignored.
func (w *Watcher) Run(ctx context.Context, dir string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(dir); err != nil {
		return err
	}

	logger.Info("Watching %s for uploads to bot %s", dir, w.botID)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !domain.AllowedExtension(event.Name) {
				continue
			}
			w.schedule(ctx, event.Name)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}

// schedule (re)arms the settle timer for a path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.upload(ctx, path)
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) upload(ctx context.Context, path string) {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("Skipping %s: %v", path, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return
	}

	docID, err := w.uploader.UploadDocument(ctx, w.botID, filepath.Base(path), info.Size(), f)
	if err != nil {
		logger.Warn("Upload of %s failed: %v", path, err)
		return
	}

	logger.Info("Uploaded %s as %s", filepath.Base(path), docID)
	if w.OnUpload != nil {
		w.OnUpload(path, docID)
	}
}
