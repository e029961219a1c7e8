package domain

// Stats is the server-computed aggregate view of a bot's knowledge base.
// The client never recomputes these counters from its caches; stats are
// always replaced wholesale from a server response.
type Stats struct {
	TotalDocuments      int  `json:"total_documents"`
	DocumentsReady      int  `json:"documents_ready"`
	DocumentsProcessing int  `json:"documents_processing"`
	DocumentsFailed     int  `json:"documents_failed"`
	TotalChunks         int  `json:"total_chunks"`
	TotalNotes          int  `json:"total_notes"`
	HasInstructions     bool `json:"has_instructions"`
}
