package driven

import (
	"context"

	"github.com/custodia-labs/postcraft/internal/core/domain"
)

// TokenExchanger talks to the OAuth provider's authorization server.
type TokenExchanger interface {
	// AuthorizationURL builds the authorization request URL for state.
	// It has no side effects.
	AuthorizationURL(state string) string

	// Exchange trades an authorization code for a credential.
	// Fails with domain.ErrAuthExchange on any non-success status.
	Exchange(ctx context.Context, code string) (*domain.Credential, error)

	// RedirectURI returns the redirect URI registered for the app.
	RedirectURI() string

	// Validate fails with domain.ErrConfiguration when the app credentials
	// or redirect URI are missing.
	Validate() error
}
