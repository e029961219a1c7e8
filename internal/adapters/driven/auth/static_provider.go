package auth

import (
	"context"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
	"github.com/tidewater-labs/kbsync/internal/core/ports/driven"
)

// Ensure StaticProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*StaticProvider)(nil)

// StaticProvider serves a fixed personal access token. Static tokens
// cannot be refreshed; a 401 with one means the token was revoked.
type StaticProvider struct {
	token string
}

// NewStaticProvider creates a provider for a fixed token.
func NewStaticProvider(token string) *StaticProvider {
	return &StaticProvider{token: token}
}

// Token returns the configured token.
func (p *StaticProvider) Token(_ context.Context) (string, error) {
	if p.token == "" {
		return "", domain.ErrAuthRequired
	}
	return p.token, nil
}

// Refresh always fails: there is nothing to refresh a static token with.
func (p *StaticProvider) Refresh(_ context.Context) (string, error) {
	return "", domain.ErrTokenRefreshFailed
}

// AuthMethod returns AuthMethodToken.
func (p *StaticProvider) AuthMethod() domain.AuthMethod {
	return domain.AuthMethodToken
}
