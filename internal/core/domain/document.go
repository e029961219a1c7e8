package domain

import "time"

// DocumentStatus is the server-side processing state of an uploaded document.
type DocumentStatus string

const (
	// StatusProcessing means the server is still chunking/embedding the file.
	StatusProcessing DocumentStatus = "processing"

	// StatusReady means the document is fully indexed and searchable.
	StatusReady DocumentStatus = "ready"

	// StatusFailed means ingestion failed. A failed document may be retried,
	// which moves it back to processing.
	StatusFailed DocumentStatus = "failed"
)

// Terminal reports whether the status is a resting state.
// Only processing documents are re-fetched by the watcher.
func (s DocumentStatus) Terminal() bool {
	return s == StatusReady || s == StatusFailed
}

// Valid reports whether the status is one the server may legally report.
func (s DocumentStatus) Valid() bool {
	return s == StatusProcessing || s == StatusReady || s == StatusFailed
}

// Document is an uploaded knowledge-base file as the remote service reports
// it. All fields are server-assigned; the client never fabricates them.
type Document struct {
	// ID is unique within a bot, assigned by the server on upload.
	ID string `json:"id"`

	// Filename is the original upload name.
	Filename string `json:"filename"`

	// FileType is the lowercase extension without the dot (e.g. "pdf").
	FileType string `json:"file_type"`

	// FileSize is the upload size in bytes.
	FileSize int64 `json:"file_size"`

	// ChunkCount is the number of chunks produced by ingestion.
	// Zero while processing.
	ChunkCount int `json:"chunk_count"`

	// Status is the ingestion state. Transitions are
	// processing -> ready | failed, and failed -> processing via retry.
	Status DocumentStatus `json:"status"`

	// UploadedAt is when the server accepted the upload.
	UploadedAt time.Time `json:"uploaded_at"`

	// ProcessedAt is when ingestion finished. Nil while processing.
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

// Chunk is a read-only preview of one ingested chunk of a document.
// Chunks are fetched lazily and never mutated client-side.
type Chunk struct {
	// ID is the chunk identifier.
	ID string `json:"id"`

	// Index is the ordinal position within the parent document,
	// unique per document.
	Index int `json:"chunk_index"`

	// Content is the chunk text preview.
	Content string `json:"content"`
}
