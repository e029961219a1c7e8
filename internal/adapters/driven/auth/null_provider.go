package auth

import (
	"context"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
	"github.com/tidewater-labs/kbsync/internal/core/ports/driven"
)

// Ensure NullProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*NullProvider)(nil)

// NullProvider is for deployments where the knowledge service runs
// without authentication (local development, trusted networks).
type NullProvider struct{}

// NewNullProvider creates a token provider that sends no token.
func NewNullProvider() *NullProvider {
	return &NullProvider{}
}

// Token returns an empty string: no Authorization header is attached.
func (p *NullProvider) Token(_ context.Context) (string, error) {
	return "", nil
}

// Refresh fails; an unauthenticated client has nothing to refresh.
func (p *NullProvider) Refresh(_ context.Context) (string, error) {
	return "", domain.ErrTokenRefreshFailed
}

// AuthMethod returns AuthMethodNone.
func (p *NullProvider) AuthMethod() domain.AuthMethod {
	return domain.AuthMethodNone
}
