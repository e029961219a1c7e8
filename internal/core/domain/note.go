package domain

import (
	"strings"
	"time"
)

// NoteSource identifies who authored a note.
type NoteSource string

const (
	// NoteSourceBot marks notes the bot generated for itself.
	NoteSourceBot NoteSource = "bot"

	// NoteSourceUser marks notes created by a human.
	NoteSourceUser NoteSource = "user"
)

// Note is a freeform knowledge-base entry, unique by ID within a bot.
type Note struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Tags    []string   `json:"tags"`
	Source  NoteSource `json:"source"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NoteDraft carries the caller-supplied fields for creating or updating a
// note. Tags are normalised before the draft leaves the client.
type NoteDraft struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// NoteFilter selects notes server-side. Zero value selects everything.
// No filtering is ever re-applied client-side on top of a server answer.
type NoteFilter struct {
	// Tags restricts to notes carrying all of the given tags.
	Tags []string

	// Search is a free-text match forwarded verbatim to the server.
	Search string
}

// IsZero reports whether the filter selects everything.
func (f NoteFilter) IsZero() bool {
	return len(f.Tags) == 0 && f.Search == ""
}

// NormalizeTags lowercases, trims, and deduplicates tags while preserving
// first-occurrence order. Empty tags are dropped.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
