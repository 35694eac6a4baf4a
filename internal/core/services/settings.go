package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/postcraft/internal/core/domain"
	"github.com/custodia-labs/postcraft/internal/core/ports/driven"
	"github.com/custodia-labs/postcraft/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLinkedInClientID     = "linkedin.client_id"
	keyLinkedInClientSecret = "linkedin.client_secret"
	keyLinkedInRedirectURI  = "linkedin.redirect_uri"
	keyLinkedInScopes       = "linkedin.scopes"
	keyLinkedInAPIVersion   = "linkedin.api_version"
	keyLinkedInAPIBaseURL   = "linkedin.api_base_url"
	keyLinkedInAuthURL      = "linkedin.auth_url"
	keyLinkedInTokenURL     = "linkedin.token_url"
	keyLLMProvider          = "llm.provider"
	keyLLMModel             = "llm.model"
	keyLLMBaseURL           = "llm.base_url"
	keyLLMAPIKey            = "llm.api_key"
	keyLedgerBackend        = "ledger.backend"
	keyLedgerPath           = "ledger.path"
	keyHTTPTimeout          = "http.timeout_seconds"
)

// Environment variables that override stored values.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvClientID     = "POSTCRAFT_LINKEDIN_CLIENT_ID"
	EnvClientSecret = "POSTCRAFT_LINKEDIN_CLIENT_SECRET"
	EnvLLMAPIKey    = "POSTCRAFT_LLM_API_KEY"
)

// providerKeyEnv names the conventional API key variable of each provider.
var providerKeyEnv = map[domain.AIProvider]string{
	domain.AIProviderOpenAI:    "OPENAI_API_KEY",
	domain.AIProviderAnthropic: "ANTHROPIC_API_KEY",
	domain.AIProviderGemini:    "GEMINI_API_KEY",
}

// secretKeys are never printed in full.
var secretKeys = map[string]bool{
	keyLinkedInClientSecret: true,
	keyLLMAPIKey:            true,
}

// IsSecretKey reports whether key holds a secret value.
func IsSecretKey(key string) bool {
	return secretKeys[key]
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		lookupEnv:   os.LookupEnv,
	}
}

// WithEnv replaces the environment lookup. Passing nil disables overrides.
func (s *SettingsService) WithEnv(lookup func(string) (string, bool)) *SettingsService {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	s.lookupEnv = lookup
	return s
}

// Get retrieves current application settings.
// Environment variables take precedence over the config file.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	provider := s.getProvider(defaults.LLM.Provider)
	model := s.configStore.GetString(keyLLMModel)
	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}

	settings := &domain.Settings{
		LinkedIn: domain.LinkedInSettings{
			ClientID:     s.getEnvOr(EnvClientID, s.configStore.GetString(keyLinkedInClientID)),
			ClientSecret: s.getEnvOr(EnvClientSecret, s.configStore.GetString(keyLinkedInClientSecret)),
			RedirectURI:  s.getString(keyLinkedInRedirectURI, defaults.LinkedIn.RedirectURI),
			Scopes:       s.getScopes(defaults.LinkedIn.Scopes),
			AuthURL:      s.getString(keyLinkedInAuthURL, defaults.LinkedIn.AuthURL),
			TokenURL:     s.getString(keyLinkedInTokenURL, defaults.LinkedIn.TokenURL),
			APIBaseURL:   s.getString(keyLinkedInAPIBaseURL, defaults.LinkedIn.APIBaseURL),
			APIVersion:   s.getString(keyLinkedInAPIVersion, defaults.LinkedIn.APIVersion),
		},
		LLM: domain.LLMSettings{
			Provider: provider,
			Model:    model,
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // empty is valid for cloud providers
			APIKey:   s.getAPIKey(provider),
		},
		Ledger: domain.LedgerSettings{
			Backend: s.getLedgerBackend(defaults.Ledger.Backend),
			Path:    s.configStore.GetString(keyLedgerPath),
		},
		Timeout: s.getTimeout(defaults.Timeout),
	}

	return settings, nil
}

// Set validates and stores a single config key.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case keyLLMProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: unknown llm provider %q", domain.ErrInvalidInput, value)
		}
		return s.configStore.Set(key, value)
	case keyLedgerBackend:
		if !domain.LedgerBackend(value).IsValid() {
			return fmt.Errorf("%w: unknown ledger backend %q", domain.ErrInvalidInput, value)
		}
		return s.configStore.Set(key, value)
	case keyHTTPTimeout:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, n)
	case keyLinkedInScopes:
		scopes := strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' })
		if len(scopes) == 0 {
			return fmt.Errorf("%w: %s must not be empty", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, scopes)
	}

	if !s.isKnownKey(key) {
		return fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}
	return s.configStore.Set(key, value)
}

// Keys returns the supported config keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := []string{
		keyLinkedInClientID,
		keyLinkedInClientSecret,
		keyLinkedInRedirectURI,
		keyLinkedInScopes,
		keyLinkedInAPIVersion,
		keyLinkedInAPIBaseURL,
		keyLinkedInAuthURL,
		keyLinkedInTokenURL,
		keyLLMProvider,
		keyLLMModel,
		keyLLMBaseURL,
		keyLLMAPIKey,
		keyLedgerBackend,
		keyLedgerPath,
		keyHTTPTimeout,
	}
	sort.Strings(keys)
	return keys
}

// Validate checks that every required value is present.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := settings.ValidateLLM(); err != nil {
		return err
	}
	if s.aiValidator == nil {
		return nil
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Path returns the config file location.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) isKnownKey(key string) bool {
	for _, k := range s.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getEnvOr(name, fallback string) string {
	if val, ok := s.lookupEnv(name); ok && val != "" {
		return val
	}
	return fallback
}

func (s *SettingsService) getAPIKey(provider domain.AIProvider) string {
	if val := s.getEnvOr(EnvLLMAPIKey, ""); val != "" {
		return val
	}
	if val := s.configStore.GetString(keyLLMAPIKey); val != "" {
		return val
	}
	if name, ok := providerKeyEnv[provider]; ok {
		return s.getEnvOr(name, "")
	}
	return ""
}

func (s *SettingsService) getScopes(defaultVal []string) []string {
	if scopes := s.configStore.GetStringSlice(keyLinkedInScopes); len(scopes) > 0 {
		return scopes
	}
	// A scope string written by hand in the TOML file.
	if raw := s.configStore.GetString(keyLinkedInScopes); raw != "" {
		return strings.Fields(raw)
	}
	return defaultVal
}

func (s *SettingsService) getTimeout(defaultVal time.Duration) time.Duration {
	secs := s.configStore.GetInt(keyHTTPTimeout)
	if secs <= 0 {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(keyLLMProvider)
	if val == "" {
		return defaultVal
	}
	// Invalid values are kept so Validate can name them.
	return domain.AIProvider(val)
}

func (s *SettingsService) getLedgerBackend(defaultVal domain.LedgerBackend) domain.LedgerBackend {
	val := domain.LedgerBackend(s.configStore.GetString(keyLedgerBackend))
	if !val.IsValid() {
		return defaultVal
	}
	return val
}
