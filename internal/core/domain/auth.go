package domain

import "time"

// AuthMethod identifies how requests to the knowledge service are
// authenticated.
type AuthMethod string

const (
	// AuthMethodNone disables authentication entirely.
	AuthMethodNone AuthMethod = "none"

	// AuthMethodToken uses a static personal access token.
	AuthMethodToken AuthMethod = "token"

	// AuthMethodOAuth uses an OAuth refresh-token flow.
	AuthMethodOAuth AuthMethod = "oauth"
)

// OAuthToken represents stored OAuth credentials for the knowledge service.
type OAuthToken struct {
	// AccessToken is the bearer token attached to API requests.
	AccessToken string `json:"access_token"`
	// RefreshToken is used to obtain new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type"`
	// Expiry is when the access token expires.
	Expiry time.Time `json:"expiry,omitempty"`
}

// IsExpired returns true if the token has expired.
func (t *OAuthToken) IsExpired() bool {
	if t.Expiry.IsZero() {
		return false
	}
	return time.Now().After(t.Expiry)
}
