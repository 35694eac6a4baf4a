package domain

import (
	"net/http"
	"time"
)

// Credential is the bearer token obtained from the OAuth code exchange.
// It lives in process memory only and is never written to disk.
type Credential struct {
	// AccessToken is the bearer token for API access.
	AccessToken string
	// TokenType is typically "Bearer".
	TokenType string
	// Expiry is informational; postcraft never refreshes tokens.
	Expiry time.Time
}

// IsExpired returns true if the token has a known expiry in the past.
func (c *Credential) IsExpired() bool {
	if c.Expiry.IsZero() {
		return false
	}
	return time.Now().After(c.Expiry)
}

// SetAuthHeader sets the Authorization header on r.
func (c *Credential) SetAuthHeader(r *http.Request) {
	r.Header.Set("Authorization", "Bearer "+c.AccessToken)
}

// SessionState is the state of an OAuth session.
type SessionState int

const (
	// SessionUnauthenticated means no credential is held.
	SessionUnauthenticated SessionState = iota
	// SessionAuthorizing means an authorization request is pending.
	SessionAuthorizing
	// SessionAuthenticated means a credential is held.
	SessionAuthenticated
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case SessionUnauthenticated:
		return "unauthenticated"
	case SessionAuthorizing:
		return "authorizing"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}
