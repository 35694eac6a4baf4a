package domain

import (
	"fmt"
	"strings"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies a text generation backend.
type AIProvider string

// Available providers.
const (
	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderGemini is Google Gemini API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderAnthropic, AIProviderOllama, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p != AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// AllLLMProviders returns every supported provider.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderOllama,
		AIProviderGemini,
	}
}

// DefaultLLMModels returns the default model per provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOpenAI:    "gpt-3.5-turbo",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
		AIProviderOllama:    "llama3.2",
		AIProviderGemini:    "gemini-2.5-flash",
	}
}

// LedgerBackend selects where posted keywords are stored.
type LedgerBackend string

const (
	// LedgerBackendFile stores keywords in a newline-delimited text file.
	LedgerBackendFile LedgerBackend = "file"

	// LedgerBackendSQLite stores keywords in the SQLite database.
	LedgerBackendSQLite LedgerBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b LedgerBackend) IsValid() bool {
	return b == LedgerBackendFile || b == LedgerBackendSQLite
}

// LinkedInSettings holds the OAuth app and REST API configuration.
type LinkedInSettings struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	AuthURL      string
	TokenURL     string
	APIBaseURL   string
	// APIVersion is sent as the LinkedIn-Version header.
	APIVersion string
}

// LLMSettings configures the text generation backend.
type LLMSettings struct {
	Provider AIProvider
	Model    string
	APIKey   string
	// BaseURL overrides the provider endpoint; empty means the provider default.
	BaseURL string
}

// IsConfigured returns true if the LLM settings are complete.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// LedgerSettings configures keyword ledger storage.
type LedgerSettings struct {
	Backend LedgerBackend
	// Path is the ledger file (file backend) or data directory (sqlite backend).
	Path string
}

// Settings is the resolved application configuration.
type Settings struct {
	LinkedIn LinkedInSettings
	LLM      LLMSettings
	Ledger   LedgerSettings
	// Timeout bounds every individual network step.
	Timeout time.Duration
}

// Default endpoint and behaviour values.
const (
	DefaultRedirectURI   = "http://localhost:8501/callback"
	DefaultAuthURL       = "https://www.linkedin.com/oauth/v2/authorization"
	DefaultTokenURL      = "https://www.linkedin.com/oauth/v2/accessToken"
	DefaultAPIBaseURL    = "https://api.linkedin.com"
	DefaultAPIVersion    = "202505"
	DefaultTimeout       = 30 * time.Second
	DefaultLedgerBackend = LedgerBackendFile
)

// DefaultScopes are the scopes needed to read the profile and publish posts.
func DefaultScopes() []string {
	return []string{"openid", "profile", "email", "w_member_social"}
}

// DefaultSettings returns settings with every optional value filled in.
func DefaultSettings() Settings {
	return Settings{
		LinkedIn: LinkedInSettings{
			RedirectURI: DefaultRedirectURI,
			Scopes:      DefaultScopes(),
			AuthURL:     DefaultAuthURL,
			TokenURL:    DefaultTokenURL,
			APIBaseURL:  DefaultAPIBaseURL,
			APIVersion:  DefaultAPIVersion,
		},
		LLM: LLMSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultLLMModels()[AIProviderOpenAI],
		},
		Ledger: LedgerSettings{
			Backend: DefaultLedgerBackend,
		},
		Timeout: DefaultTimeout,
	}
}

// Validate reports every missing required value as a single ErrConfiguration.
func (s Settings) Validate() error {
	var missing []string
	if s.LinkedIn.ClientID == "" {
		missing = append(missing, "linkedin.client_id")
	}
	if s.LinkedIn.ClientSecret == "" {
		missing = append(missing, "linkedin.client_secret")
	}
	if s.LinkedIn.RedirectURI == "" {
		missing = append(missing, "linkedin.redirect_uri")
	}
	switch {
	case !s.LLM.Provider.IsValid():
		missing = append(missing, "llm.provider")
	case !s.LLM.IsConfigured():
		missing = append(missing, "llm.api_key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateLLM checks only the text generation settings.
func (s Settings) ValidateLLM() error {
	if !s.LLM.Provider.IsValid() {
		return fmt.Errorf("%w: unknown llm.provider %q", ErrConfiguration, s.LLM.Provider)
	}
	if !s.LLM.IsConfigured() {
		return fmt.Errorf("%w: missing llm.api_key for %s", ErrConfiguration, s.LLM.Provider)
	}
	return nil
}
