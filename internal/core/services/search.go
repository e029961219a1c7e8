package services

import (
	"context"
	"sync"
	"time"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
	"github.com/tidewater-labs/kbsync/internal/core/ports/driving"
)

// Ensure SearchSession implements the interface.
var _ driving.SearchSession = (*SearchSession)(nil)

// DefaultDebounce is the quiet window for free-text query changes.
// Tag-only changes fire immediately.
const DefaultDebounce = 300 * time.Millisecond

// SearchSession coalesces query keystrokes for one consumer view bound to
// a single bot. Every query change cancels the pending timer and schedules
// a new one; only the last value within the quiet window reaches the
// store. Tag-filter changes re-fetch notes with no delay.
type SearchSession struct {
	store driving.KnowledgeService
	botID string
	delay time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	tags   []string
	closed bool
}

// NewSearchSession creates a session for one bot. A non-positive delay
// falls back to DefaultDebounce.
func NewSearchSession(store driving.KnowledgeService, botID string, delay time.Duration) *SearchSession {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &SearchSession{
		store: store,
		botID: botID,
		delay: delay,
	}
}

// SetQuery records a query change. An empty query clears the result buffer
// synchronously and issues no request; a non-empty query is searched after
// the quiet window, unless superseded by a later change.
func (s *SearchSession) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if query == "" {
		s.store.ClearSearch()
		return
	}
	s.timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
		// Errors surface through the store's error field; a session has
		// no caller to hand them to.
		_, _ = s.store.Search(context.Background(), s.botID, query)
	})
}

// SetTags records a tag-filter change and re-fetches the note list
// immediately. The tag set is forwarded as-is; the server does the
// filtering.
func (s *SearchSession) SetTags(tags []string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.tags = tags
	s.mu.Unlock()

	_, _ = s.store.LoadNotes(context.Background(), s.botID, domain.NoteFilter{Tags: tags})
}

// Tags returns the session's current tag filter.
func (s *SearchSession) Tags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

// Close cancels the pending timer and clears the result buffer, so a
// response scheduled before teardown can never appear after it.
func (s *SearchSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.store.ClearSearch()
}
