package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/postcraft/internal/core/domain"
)

// mockSettings implements driving.SettingsService.
type mockSettings struct {
	settings *domain.Settings
	getErr   error
	setErr   error
	values   map[string]string

	validateErr error
	pingErr     error
}

func (m *mockSettings) Get() (*domain.Settings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.settings == nil {
		s := domain.DefaultSettings()
		m.settings = &s
	}
	return m.settings, nil
}

func (m *mockSettings) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

func (m *mockSettings) Keys() []string {
	return []string{"linkedin.client_id", "llm.provider"}
}

func (m *mockSettings) Validate() error          { return m.validateErr }
func (m *mockSettings) ValidateLLMConfig() error { return m.pingErr }
func (m *mockSettings) Path() string             { return "/tmp/postcraft/config.toml" }

// mockSession implements driving.AuthSession.
type mockSession struct {
	url         string
	beginErr    error
	exchangeErr error
	cred        *domain.Credential
	code        string
}

func (m *mockSession) State() domain.SessionState {
	if m.cred != nil {
		return domain.SessionAuthenticated
	}
	return domain.SessionUnauthenticated
}

func (m *mockSession) Begin() (string, string, error) {
	return m.url, "state-token", m.beginErr
}

func (m *mockSession) ExpectedState() string { return "state-token" }

func (m *mockSession) Exchange(_ context.Context, code string) error {
	m.code = code
	if m.exchangeErr != nil {
		return m.exchangeErr
	}
	if m.cred == nil {
		m.cred = &domain.Credential{AccessToken: "token", TokenType: "Bearer"}
	}
	return nil
}

func (m *mockSession) Credential() (*domain.Credential, error) {
	if m.cred == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return m.cred, nil
}

func (m *mockSession) RedirectURI() string { return domain.DefaultRedirectURI }
func (m *mockSession) Disconnect()         { m.cred = nil }

// mockGenerator implements driving.ContentGenerator.
type mockGenerator struct {
	post     string
	err      error
	keywords []string
}

func (m *mockGenerator) Generate(_ context.Context, keywords []string) (string, error) {
	m.keywords = keywords
	if m.err != nil {
		return "", m.err
	}
	return m.post, nil
}

func (m *mockGenerator) Hashtags(keywords []string, limit int) string {
	tags := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		tags = append(tags, "#"+kw)
	}
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return strings.Join(tags, " ")
}

// mockIdentity implements IdentityFetcher.
type mockIdentity struct {
	person domain.PersonID
	err    error
}

func (m *mockIdentity) FetchIdentity(_ context.Context, _ *domain.Credential) (domain.PersonID, error) {
	return m.person, m.err
}

// useServices injects s for the duration of the test.
func useServices(t *testing.T, s *Services) {
	t.Helper()
	SetServices(s)
	t.Cleanup(func() { SetServices(nil) })
}

// testCommand returns a command writing into the returned buffer and
// reading input from stdin.
func testCommand(stdin string) (*cobra.Command, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetContext(context.Background())
	return cmd, buf
}

// setFlag assigns a package flag variable and restores it after the test.
func setFlag[T any](t *testing.T, ptr *T, value T) {
	t.Helper()
	old := *ptr
	*ptr = value
	t.Cleanup(func() { *ptr = old })
}
