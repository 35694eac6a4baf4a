package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/postcraft/internal/core/domain"
)

func testSettings(tokenURL string) domain.LinkedInSettings {
	return domain.LinkedInSettings{
		ClientID:     "client-123",
		ClientSecret: "secret-456",
		RedirectURI:  "http://localhost:8501/callback",
		Scopes:       domain.DefaultScopes(),
		AuthURL:      domain.DefaultAuthURL,
		TokenURL:     tokenURL,
	}
}

func TestBuildAuthorizationURL(t *testing.T) {
	raw := BuildAuthorizationURL(testSettings(domain.DefaultTokenURL), "xyz")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "www.linkedin.com", u.Host)
	assert.Equal(t, "/oauth/v2/authorization", u.Path)

	q := u.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "http://localhost:8501/callback", q.Get("redirect_uri"))
	assert.Equal(t, "openid profile email w_member_social", q.Get("scope"))
	assert.Equal(t, "xyz", q.Get("state"))
	assert.Empty(t, q.Get("client_secret"))
}

func TestBuildAuthorizationURL_Pure(t *testing.T) {
	s := testSettings(domain.DefaultTokenURL)
	assert.Equal(t, BuildAuthorizationURL(s, "a"), BuildAuthorizationURL(s, "a"))
	assert.NotEqual(t, BuildAuthorizationURL(s, "a"), BuildAuthorizationURL(s, "b"))
}

func TestTokenExchanger_Exchange_Success(t *testing.T) {
	var form url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"AQX-token","expires_in":5184000,"scope":"w_member_social"}`))
	}))
	defer server.Close()

	ex := NewTokenExchanger(testSettings(server.URL), time.Second)
	cred, err := ex.Exchange(context.Background(), "auth-code")

	require.NoError(t, err)
	assert.Equal(t, "AQX-token", cred.AccessToken)
	assert.Equal(t, "Bearer", cred.TokenType)
	assert.False(t, cred.Expiry.IsZero())
	assert.False(t, cred.IsExpired())

	assert.Equal(t, "authorization_code", form.Get("grant_type"))
	assert.Equal(t, "auth-code", form.Get("code"))
	assert.Equal(t, "client-123", form.Get("client_id"))
	assert.Equal(t, "secret-456", form.Get("client_secret"))
	assert.Equal(t, "http://localhost:8501/callback", form.Get("redirect_uri"))
}

func TestTokenExchanger_Exchange_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"code expired"}`))
	}))
	defer server.Close()

	ex := NewTokenExchanger(testSettings(server.URL), time.Second)
	cred, err := ex.Exchange(context.Background(), "stale")

	assert.Nil(t, cred)
	require.ErrorIs(t, err, domain.ErrAuthExchange)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "invalid_grant")
	assert.Contains(t, err.Error(), "code expired")
}

func TestTokenExchanger_Exchange_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewTokenExchanger(testSettings(server.URL), time.Second).Exchange(context.Background(), "code")

	require.ErrorIs(t, err, domain.ErrAuthExchange)
	assert.Contains(t, err.Error(), "status 500")
}

func TestTokenExchanger_Exchange_Non200Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"access_token":"AQX-token","expires_in":60}`))
	}))
	defer server.Close()

	cred, err := NewTokenExchanger(testSettings(server.URL), time.Second).Exchange(context.Background(), "code")

	assert.Nil(t, cred)
	require.ErrorIs(t, err, domain.ErrAuthExchange)
	assert.Contains(t, err.Error(), "status 201")
}

func TestTokenExchanger_Validate(t *testing.T) {
	assert.NoError(t, NewTokenExchanger(testSettings(domain.DefaultTokenURL), 0).Validate())

	s := testSettings(domain.DefaultTokenURL)
	s.ClientID = ""
	s.ClientSecret = ""
	err := NewTokenExchanger(s, 0).Validate()
	require.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "linkedin.client_id, linkedin.client_secret")

	s = testSettings(domain.DefaultTokenURL)
	s.RedirectURI = ""
	assert.ErrorIs(t, NewTokenExchanger(s, 0).Validate(), domain.ErrConfiguration)
}

func TestTokenExchanger_Exchange_MissingToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"expires_in":60}`))
	}))
	defer server.Close()

	_, err := NewTokenExchanger(testSettings(server.URL), time.Second).Exchange(context.Background(), "code")

	assert.ErrorIs(t, err, domain.ErrAuthExchange)
}

func TestTokenExchanger_Exchange_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	_, err := NewTokenExchanger(testSettings(server.URL), time.Second).Exchange(context.Background(), "code")

	assert.ErrorIs(t, err, domain.ErrAuthExchange)
}

func TestTokenExchanger_Accessors(t *testing.T) {
	ex := NewTokenExchanger(testSettings(domain.DefaultTokenURL), 0)

	assert.Equal(t, "http://localhost:8501/callback", ex.RedirectURI())
	assert.Equal(t, BuildAuthorizationURL(testSettings(domain.DefaultTokenURL), "s"), ex.AuthorizationURL("s"))
	assert.Equal(t, domain.DefaultTimeout, ex.httpClient.Timeout)
}
