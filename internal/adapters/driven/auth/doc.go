// Package auth implements the driven.TokenProvider port.
//
// Three providers cover the supported authentication modes: a static
// token provider (tokens never refresh), an OAuth provider that refreshes
// access tokens through golang.org/x/oauth2, and a null provider for
// unauthenticated deployments.
package auth
