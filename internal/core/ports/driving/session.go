package driving

import (
	"context"

	"github.com/custodia-labs/postcraft/internal/core/domain"
)

// AuthSession manages the OAuth authorization-code flow and holds the
// resulting credential for the lifetime of the process.
type AuthSession interface {
	// State returns the current session state.
	State() domain.SessionState

	// Begin starts an authorization request and returns the URL the user must
	// visit together with the CSRF state token embedded in it.
	Begin() (authURL, state string, err error)

	// ExpectedState returns the state token of the pending authorization request.
	ExpectedState() string

	// Exchange trades an authorization code for a credential.
	Exchange(ctx context.Context, code string) error

	// Credential returns the held credential or domain.ErrNotAuthenticated.
	Credential() (*domain.Credential, error)

	// RedirectURI returns the redirect URI used in authorization requests.
	RedirectURI() string

	// Disconnect discards the credential.
	Disconnect()
}
