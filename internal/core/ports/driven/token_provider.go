package driven

import (
	"context"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
)

// TokenProvider supplies bearer tokens for calls to the knowledge service.
//
// The API client uses it reactively: a request that comes back 401 triggers
// exactly one Refresh, and on success the request is repeated once. A
// Refresh failure surfaces the original 401 to the caller.
type TokenProvider interface {
	// Token returns the current access token.
	// Returns empty string when authentication is disabled.
	Token(ctx context.Context) (string, error)

	// Refresh obtains a new access token, invalidating the old one.
	// Returns domain.ErrTokenRefreshFailed (possibly wrapped) when no new
	// token could be obtained.
	Refresh(ctx context.Context) (string, error)

	// AuthMethod returns the authentication method in use.
	AuthMethod() domain.AuthMethod
}
