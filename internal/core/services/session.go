package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/postcraft/internal/core/domain"
	"github.com/custodia-labs/postcraft/internal/core/ports/driven"
	"github.com/custodia-labs/postcraft/internal/core/ports/driving"
	"github.com/custodia-labs/postcraft/internal/logger"
)

// Ensure OAuthSession implements the interface.
var _ driving.AuthSession = (*OAuthSession)(nil)

// OAuthSession runs the authorization-code flow and holds the credential
// in memory for the lifetime of the process.
//
// Transitions:
//
//	Unauthenticated --Begin--> Authorizing --Exchange ok--> Authenticated
//	Authorizing --Exchange fails--> Unauthenticated
//	Authenticated --Disconnect--> Unauthenticated
type OAuthSession struct {
	mu           sync.Mutex
	exchanger    driven.TokenExchanger
	state        domain.SessionState
	pendingState string
	cred         *domain.Credential
	newState     func() (string, error)
}

// NewOAuthSession creates an unauthenticated session.
func NewOAuthSession(exchanger driven.TokenExchanger) *OAuthSession {
	return &OAuthSession{
		exchanger: exchanger,
		state:     domain.SessionUnauthenticated,
		newState:  generateState,
	}
}

// State returns the current session state.
func (s *OAuthSession) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Begin starts a new authorization request. Calling it again while
// authorizing replaces the pending state token.
func (s *OAuthSession) Begin() (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.SessionAuthenticated {
		return "", "", fmt.Errorf("%w: already authenticated", domain.ErrInvalidTransition)
	}
	if err := s.exchanger.Validate(); err != nil {
		return "", "", err
	}

	state, err := s.newState()
	if err != nil {
		return "", "", fmt.Errorf("generate state: %w", err)
	}

	s.pendingState = state
	s.state = domain.SessionAuthorizing
	return s.exchanger.AuthorizationURL(state), state, nil
}

// ExpectedState returns the state token of the pending request.
func (s *OAuthSession) ExpectedState() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingState
}

// Exchange trades code for a credential. On failure the session returns to
// Unauthenticated and the error wraps domain.ErrAuthExchange.
func (s *OAuthSession) Exchange(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.SessionAuthenticated {
		return fmt.Errorf("%w: already authenticated", domain.ErrInvalidTransition)
	}
	if code == "" {
		s.reset()
		return fmt.Errorf("%w: %w: empty authorization code", domain.ErrAuthExchange, domain.ErrInvalidInput)
	}
	if err := s.exchanger.Validate(); err != nil {
		s.reset()
		return wrapKind(domain.ErrAuthExchange, err)
	}

	cred, err := s.exchanger.Exchange(ctx, code)
	if err != nil {
		s.reset()
		logger.Debug("Token exchange failed: %v", err)
		return wrapKind(domain.ErrAuthExchange, err)
	}

	s.cred = cred
	s.pendingState = ""
	s.state = domain.SessionAuthenticated
	logger.Debug("OAuth session authenticated")
	return nil
}

// Credential returns the held credential.
func (s *OAuthSession) Credential() (*domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.SessionAuthenticated || s.cred == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return s.cred, nil
}

// RedirectURI returns the redirect URI used in authorization requests.
func (s *OAuthSession) RedirectURI() string {
	return s.exchanger.RedirectURI()
}

// Disconnect discards the credential and any pending request.
func (s *OAuthSession) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// reset returns to Unauthenticated. Callers hold s.mu.
func (s *OAuthSession) reset() {
	s.cred = nil
	s.pendingState = ""
	s.state = domain.SessionUnauthenticated
}

// wrapKind tags err with kind unless it already carries it.
func wrapKind(kind, err error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
