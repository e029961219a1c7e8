package driving

// SearchSession is a debounced text-input front for one consumer view.
// Query keystrokes are coalesced: only the last value within the quiet
// window triggers a search. Tag-filter changes re-fetch notes immediately.
type SearchSession interface {
	// SetQuery records a query change. An empty query clears the result
	// buffer synchronously and issues no request.
	SetQuery(query string)

	// SetTags records a tag-filter change and re-fetches the note list
	// immediately (no quiet window for tag-only changes).
	SetTags(tags []string)

	// Close cancels any pending timer and clears the result buffer so no
	// stale response can appear after the consumer is gone.
	Close()
}
