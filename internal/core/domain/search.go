package domain

// SearchResultType distinguishes what kind of entity a search hit is.
type SearchResultType string

const (
	// ResultTypeDocument is a hit inside an uploaded document.
	ResultTypeDocument SearchResultType = "document"

	// ResultTypeNote is a hit inside a note.
	ResultTypeNote SearchResultType = "note"
)

// SearchResult is one hit in a knowledge-base search. The result set is a
// flat ordered sequence, replaced wholesale on every search and cleared when
// the query is emptied.
type SearchResult struct {
	ID    string           `json:"id"`
	Type  SearchResultType `json:"type"`
	Title string           `json:"title"`

	// Content is the matching snippet.
	Content string `json:"content"`

	// Score is the server ranking score. Nil when the backend does not
	// score (e.g. pure keyword match).
	Score *float64 `json:"score,omitempty"`

	// Source is an optional origin label (filename, note source).
	Source *string `json:"source,omitempty"`
}
