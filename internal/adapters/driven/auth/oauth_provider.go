package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
	"github.com/tidewater-labs/kbsync/internal/core/ports/driven"
)

// Ensure OAuthProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*OAuthProvider)(nil)

// refreshBuffer refreshes tokens slightly before their stated expiry so a
// request does not race the deadline.
const refreshBuffer = 5 * time.Minute

// OAuthProvider serves access tokens backed by an OAuth refresh-token
// flow. The refresh itself is delegated to golang.org/x/oauth2, which
// exchanges the stored refresh token at the provider's token endpoint.
type OAuthProvider struct {
	config *oauth2.Config

	mu    sync.Mutex
	token *oauth2.Token

	// onToken, when set, is called with each newly obtained token so the
	// caller can persist it (the refresh token may rotate).
	onToken func(domain.OAuthToken)
}

// NewOAuthProvider creates a provider from client credentials, a token
// endpoint, and the last known token state.
func NewOAuthProvider(clientID, clientSecret, tokenURL string, stored domain.OAuthToken, onToken func(domain.OAuthToken)) *OAuthProvider {
	return &OAuthProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
		},
		token: &oauth2.Token{
			AccessToken:  stored.AccessToken,
			RefreshToken: stored.RefreshToken,
			TokenType:    stored.TokenType,
			Expiry:       stored.Expiry,
		},
		onToken: onToken,
	}
}

// Token returns the current access token, refreshing first when it is
// expired or inside the refresh buffer.
func (p *OAuthProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token.AccessToken != "" && p.fresh() {
		return p.token.AccessToken, nil
	}
	return p.refreshLocked(ctx)
}

// Refresh discards the current access token and obtains a new one.
func (p *OAuthProvider) Refresh(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token.AccessToken = ""
	return p.refreshLocked(ctx)
}

// AuthMethod returns AuthMethodOAuth.
func (p *OAuthProvider) AuthMethod() domain.AuthMethod {
	return domain.AuthMethodOAuth
}

// fresh reports whether the cached token is safely inside its lifetime.
// Caller must hold p.mu.
func (p *OAuthProvider) fresh() bool {
	if p.token.Expiry.IsZero() {
		return true
	}
	return time.Until(p.token.Expiry) > refreshBuffer
}

// refreshLocked exchanges the refresh token for a new access token.
// Caller must hold p.mu.
func (p *OAuthProvider) refreshLocked(ctx context.Context) (string, error) {
	if p.token.RefreshToken == "" {
		return "", fmt.Errorf("%w: no refresh token configured", domain.ErrTokenRefreshFailed)
	}

	// Force the exchange by presenting only the refresh token.
	src := p.config.TokenSource(ctx, &oauth2.Token{RefreshToken: p.token.RefreshToken})
	fresh, err := src.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTokenRefreshFailed, err)
	}

	p.token = fresh
	if p.onToken != nil {
		p.onToken(domain.OAuthToken{
			AccessToken:  fresh.AccessToken,
			RefreshToken: fresh.RefreshToken,
			TokenType:    fresh.TokenType,
			Expiry:       fresh.Expiry,
		})
	}
	return fresh.AccessToken, nil
}
