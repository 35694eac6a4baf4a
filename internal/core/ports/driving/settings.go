package driving

import "github.com/custodia-labs/postcraft/internal/core/domain"

// SettingsService resolves and updates application settings.
type SettingsService interface {
	// Get resolves current settings from config, environment and defaults.
	Get() (*domain.Settings, error)

	// Set stores a single config key.
	Set(key, value string) error

	// Keys returns the supported config keys.
	Keys() []string

	// Validate checks that every required value is present.
	Validate() error

	// ValidateLLMConfig validates the LLM configuration by pinging the provider.
	ValidateLLMConfig() error

	// Path returns the config file location.
	Path() string
}
