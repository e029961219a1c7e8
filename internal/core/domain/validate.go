package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MaxUploadSize is the largest file the client will send, in bytes.
const MaxUploadSize = 10 << 20 // 10 MiB

// allowedExtensions are the upload types the ingestion pipeline accepts.
var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".txt":  {},
	".md":   {},
	".docx": {},
	".csv":  {},
	".json": {},
	".html": {},
}

// AllowedExtension reports whether the filename carries an accepted
// extension. Matching is case-insensitive.
func AllowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	_, ok := allowedExtensions[ext]
	return ok
}

// ValidateUpload runs the client-side pre-flight checks for a document
// upload. A failure here means no request is issued at all.
func ValidateUpload(filename string, size int64) error {
	if !AllowedExtension(filename) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFileType, filepath.Ext(filename))
	}
	if size > MaxUploadSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, size, MaxUploadSize)
	}
	return nil
}

// ValidateNoteDraft checks a note draft before it is sent to the server.
func ValidateNoteDraft(draft NoteDraft) error {
	if strings.TrimSpace(draft.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(draft.Content) == "" {
		return ErrEmptyContent
	}
	return nil
}

// ValidateInstruction checks an instruction blob before it is sent.
func ValidateInstruction(content string) error {
	if len(content) > MaxInstructionLength {
		return fmt.Errorf("%w: %d chars (limit %d)", ErrInstructionTooLong, len(content), MaxInstructionLength)
	}
	return nil
}
