package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
)

// RequestError is a non-2xx response from the knowledge service.
type RequestError struct {
	// Status is the HTTP status code.
	Status int

	// Detail is the server-provided failure message, or the HTTP status
	// line when the body carried none.
	Detail string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("knowledge service: %s (HTTP %d)", e.Detail, e.Status)
}

// Unwrap maps well-known statuses onto domain sentinels so callers can use
// errors.Is without depending on this package's types.
func (e *RequestError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return domain.ErrAuthExpired
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited
	default:
		return nil
	}
}

// newRequestError builds a RequestError from a response, consuming the
// body. The service reports failures as {"detail": "..."}.
func newRequestError(resp *http.Response) *RequestError {
	detail := resp.Status
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && len(body) > 0 {
		var payload struct {
			Detail string `json:"detail"`
		}
		if jsonErr := json.Unmarshal(body, &payload); jsonErr == nil && payload.Detail != "" {
			detail = payload.Detail
		}
	}
	return &RequestError{Status: resp.StatusCode, Detail: detail}
}
