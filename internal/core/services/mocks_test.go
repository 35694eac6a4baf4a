package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/postcraft/internal/core/domain"
	"github.com/custodia-labs/postcraft/internal/core/ports/driven"
)

// mockLLM records chat requests and returns a canned reply.
type mockLLM struct {
	reply    string
	err      error
	calls    int
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.calls++
	return m.reply, m.err
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.calls++
	m.messages = messages
	m.opts = opts
	return m.reply, m.err
}

func (m *mockLLM) ModelName() string            { return "mock-model" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockPrompts serves templates from a map.
type mockPrompts struct {
	prompts map[string]string
}

func (m *mockPrompts) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", errors.New("prompt not found")
	}
	return p, nil
}

func (m *mockPrompts) Reload() {}

// mockExchanger is a TokenExchanger with a configurable result.
type mockExchanger struct {
	cred        *domain.Credential
	err         error
	validateErr error
	codes       []string
}

func (m *mockExchanger) AuthorizationURL(state string) string {
	return "https://auth.example.com/authorize?state=" + state
}

func (m *mockExchanger) Exchange(_ context.Context, code string) (*domain.Credential, error) {
	m.codes = append(m.codes, code)
	if m.err != nil {
		return nil, m.err
	}
	return m.cred, nil
}

func (m *mockExchanger) RedirectURI() string { return "http://localhost:8501/callback" }
func (m *mockExchanger) Validate() error     { return m.validateErr }

// mockPublisher records calls in order and fails on demand.
type mockPublisher struct {
	mu          sync.Mutex
	calls       []string
	person      domain.PersonID
	media       domain.MediaReference
	postID      string
	identityErr error
	uploadErr   error
	publishErr  error

	publishedBody  string
	publishedMedia *domain.MediaReference
	uploadedBytes  []byte
	uploadOwner    domain.PersonID
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{
		person: "abc123",
		media:  "urn:li:image:C4E10AQ",
		postID: "urn:li:share:7000",
	}
}

func (m *mockPublisher) FetchIdentity(_ context.Context, _ *domain.Credential) (domain.PersonID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "identity")
	if m.identityErr != nil {
		return "", m.identityErr
	}
	return m.person, nil
}

func (m *mockPublisher) UploadMedia(
	_ context.Context, _ *domain.Credential, person domain.PersonID, data []byte,
) (domain.MediaReference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "upload")
	m.uploadOwner = person
	m.uploadedBytes = data
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	return m.media, nil
}

func (m *mockPublisher) Publish(
	_ context.Context, _ *domain.Credential, _ domain.PersonID, content string, media *domain.MediaReference,
) (*domain.PublishResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "publish")
	m.publishedBody = content
	m.publishedMedia = media
	if m.publishErr != nil {
		return nil, m.publishErr
	}
	return &domain.PublishResult{PostID: m.postID}, nil
}

// failingLedger wraps a ledger and fails selected operations.
type failingLedger struct {
	driven.KeywordLedger
	containsErr error
	appendErr   error
	failOn      map[string]bool
}

func (l *failingLedger) Contains(ctx context.Context, keyword string) (bool, error) {
	if l.containsErr != nil {
		return false, l.containsErr
	}
	return l.KeywordLedger.Contains(ctx, keyword)
}

func (l *failingLedger) Append(ctx context.Context, keyword string) error {
	if l.appendErr != nil && (l.failOn == nil || l.failOn[keyword]) {
		return l.appendErr
	}
	return l.KeywordLedger.Append(ctx, keyword)
}
