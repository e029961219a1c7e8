package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Pre-flight validation errors. These are raised before any network
	// call is made; a request rejected here never reaches the server.

	// ErrUnsupportedFileType indicates the upload extension is not allowed.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrFileTooLarge indicates the upload exceeds MaxUploadSize.
	ErrFileTooLarge = errors.New("file too large")

	// ErrEmptyTitle indicates a note was saved without a title.
	ErrEmptyTitle = errors.New("note title must not be empty")

	// ErrEmptyContent indicates a note was saved without content.
	ErrEmptyContent = errors.New("note content must not be empty")

	// ErrInstructionTooLong indicates the instruction blob exceeds
	// MaxInstructionLength.
	ErrInstructionTooLong = errors.New("instruction exceeds maximum length")

	// Authentication errors.

	// ErrAuthRequired indicates the remote service requires a token but
	// none is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthExpired indicates a 401 that could not be resolved by a
	// token refresh.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrTokenRefreshFailed indicates the token refresh operation failed.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// ErrRateLimited indicates the remote service rejected the call for
	// exceeding its rate limit.
	ErrRateLimited = errors.New("rate limited")
)
