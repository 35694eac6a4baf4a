package driven

import "github.com/custodia-labs/postcraft/internal/core/domain"

// AIConfigValidator validates LLM configuration by connecting to the provider.
type AIConfigValidator interface {
	// ValidateLLM creates a temporary service from settings and pings it.
	ValidateLLM(settings *domain.LLMSettings) error
}
