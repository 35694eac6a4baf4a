// Package oauth implements the LinkedIn authorization-code grant on top of
// golang.org/x/oauth2.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/postcraft/internal/core/domain"
	"github.com/custodia-labs/postcraft/internal/core/ports/driven"
)

// Ensure TokenExchanger implements the interface.
var _ driven.TokenExchanger = (*TokenExchanger)(nil)

// NewConfig builds the oauth2 configuration for the LinkedIn app.
// Client credentials are sent in the form body, as LinkedIn requires.
func NewConfig(settings domain.LinkedInSettings) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     settings.ClientID,
		ClientSecret: settings.ClientSecret,
		RedirectURL:  settings.RedirectURI,
		Scopes:       settings.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   settings.AuthURL,
			TokenURL:  settings.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// BuildAuthorizationURL returns the URL the user visits to grant access.
// It carries response_type, client_id, redirect_uri, the space-joined
// scopes and state. It has no side effects.
func BuildAuthorizationURL(settings domain.LinkedInSettings, state string) string {
	return NewConfig(settings).AuthCodeURL(state)
}

// TokenExchanger trades authorization codes for access tokens.
type TokenExchanger struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewTokenExchanger creates an exchanger for the configured app.
func NewTokenExchanger(settings domain.LinkedInSettings, timeout time.Duration) *TokenExchanger {
	if timeout <= 0 {
		timeout = domain.DefaultTimeout
	}
	return &TokenExchanger{
		config: NewConfig(settings),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: okOnlyTransport{base: http.DefaultTransport},
		},
	}
}

// Validate reports missing app credentials or redirect URI.
func (e *TokenExchanger) Validate() error {
	var missing []string
	if e.config.ClientID == "" {
		missing = append(missing, "linkedin.client_id")
	}
	if e.config.ClientSecret == "" {
		missing = append(missing, "linkedin.client_secret")
	}
	if e.config.RedirectURL == "" {
		missing = append(missing, "linkedin.redirect_uri")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

// AuthorizationURL builds the authorization request URL for state.
func (e *TokenExchanger) AuthorizationURL(state string) string {
	return e.config.AuthCodeURL(state)
}

// RedirectURI returns the redirect URI registered for the app.
func (e *TokenExchanger) RedirectURI() string {
	return e.config.RedirectURL
}

// Exchange posts the authorization code to the token endpoint.
// Any non-success response fails with domain.ErrAuthExchange.
func (e *TokenExchanger) Exchange(ctx context.Context, code string) (*domain.Credential, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, e.httpClient)

	tok, err := e.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthExchange, describeTokenError(err))
	}

	return &domain.Credential{
		AccessToken: tok.AccessToken,
		TokenType:   tok.Type(),
		Expiry:      tok.Expiry,
	}, nil
}

// okOnlyTransport fails token responses with a 2xx status other than 200.
// oauth2 accepts the whole 2xx range; LinkedIn answers a grant with 200.
type okOnlyTransport struct {
	base http.RoundTripper
}

func (t okOnlyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return resp, nil
}

// describeTokenError turns an oauth2 retrieve error into a short message
// that keeps the provider's error code and description.
func describeTokenError(err error) error {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) || re.Response == nil {
		return err
	}
	if re.ErrorCode != "" {
		if re.ErrorDescription != "" {
			return fmt.Errorf("status %d: %s - %s", re.Response.StatusCode, re.ErrorCode, re.ErrorDescription)
		}
		return fmt.Errorf("status %d: %s", re.Response.StatusCode, re.ErrorCode)
	}
	return fmt.Errorf("status %d: %s", re.Response.StatusCode, http.StatusText(re.Response.StatusCode))
}
